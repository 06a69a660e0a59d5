package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ValidationError describes a rejected prompt input
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return e.Message
}

// validateProbability checks a probability is within [0, 1]
func validateProbability(p float64) error {
	if p < 0 || p > 1 {
		return ValidationError{Field: "prob", Message: fmt.Sprintf("Probability must be between 0 and 1 (got %g)", p)}
	}
	return nil
}

// validateRate checks a discount rate is sane (0-100%)
func validateRate(r float64) error {
	if r < 0 || r > 1 {
		return ValidationError{Field: "rate", Message: fmt.Sprintf("Rate must be between 0 and 1, or entered as a percentage (got %g)", r)}
	}
	return nil
}

// InteractiveConfigBuilder collects configuration through console prompts
type InteractiveConfigBuilder struct {
	reader *bufio.Reader
}

// NewInteractiveConfigBuilder creates a builder reading from stdin
func NewInteractiveConfigBuilder() *InteractiveConfigBuilder {
	return &InteractiveConfigBuilder{reader: bufio.NewReader(os.Stdin)}
}

// BuildConfig walks the user through a minimal setup: input mode,
// discount rate, policy and outcome names, and the solver parameters.
// The table itself is seeded with equal probabilities and zero values;
// editing cells is much easier in the web UI or the YAML file.
func (b *InteractiveConfigBuilder) BuildConfig() *Config {
	config, err := LoadDefaultConfig()
	if err != nil {
		// Embedded default is compiled in; a parse failure here is a build defect
		fmt.Fprintf(os.Stderr, "Error loading embedded defaults: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("─── Policy Optimizer Setup ───")
	fmt.Println()

	if b.promptYesNo("Enter net-benefit streams (B0..B3) instead of PV(TNB) directly?", false) {
		config.Optimizer.InputMode = string(ModeStream)
	} else {
		config.Optimizer.InputMode = string(ModeDirect)
	}

	config.Optimizer.DiscountRate = b.promptPercent("Discount rate (r)", 0.07)
	config.Optimizer.RateSource = "custom"

	policies := b.promptList("Policy names (comma-separated)", []string{"A", "B", "C", "D"})
	outcomes := b.promptList("Outcome names per policy (comma-separated)", []string{"E", "F", "G"})

	prob := b.promptProbability("Seed probability per outcome", 1.0/float64(len(outcomes)))
	table := make([]TableRowConfig, 0, len(policies)*len(outcomes))
	for _, p := range policies {
		for _, o := range outcomes {
			table = append(table, TableRowConfig{
				Policy: p, Outcome: o,
				Prob: strconv.FormatFloat(prob, 'f', 3, 64), PVTNB: "0",
				B0: "0", B1: "0", B2: "0", B3: "0",
			})
		}
	}
	config.Optimizer.Table = table
	fmt.Printf("  Seeded %d rows with Prob %.3f each; edit values in the UI or config file.\n",
		len(table), prob)

	fmt.Println()
	fmt.Println("─── Depletable Resource Solver ───")
	fmt.Println()
	config.Resource.A = b.promptFloat("a (from inverse demand P = a − bq)", config.Resource.A)
	config.Resource.B = b.promptFloat("b (demand slope, must be > 0)", config.Resource.B)
	config.Resource.MC = b.promptFloat("MC (constant marginal cost)", config.Resource.MC)
	config.Resource.Rate = b.promptPercent("r (discount rate)", config.Resource.Rate)
	config.Resource.Reserves = b.promptFloat("Q (total reserves)", config.Resource.Reserves)

	return config
}

// promptYesNo asks a yes/no question
func (b *InteractiveConfigBuilder) promptYesNo(prompt string, defaultVal bool) bool {
	def := "y/N"
	if defaultVal {
		def = "Y/n"
	}
	fmt.Printf("%s [%s]: ", prompt, def)
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	if input == "" {
		return defaultVal
	}
	return input == "y" || input == "yes"
}

// promptFloat asks for a plain number
func (b *InteractiveConfigBuilder) promptFloat(prompt string, defaultVal float64) float64 {
	fmt.Printf("%s [%g]: ", prompt, defaultVal)
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Printf("  Not a number, using %g\n", defaultVal)
		return defaultVal
	}
	return val
}

// promptProbability asks for a probability in [0, 1]
func (b *InteractiveConfigBuilder) promptProbability(prompt string, defaultVal float64) float64 {
	fmt.Printf("%s [%.3f]: ", prompt, defaultVal)
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Printf("  Not a number, using %.3f\n", defaultVal)
		return defaultVal
	}
	if err := validateProbability(val); err != nil {
		fmt.Printf("  %v, using %.3f\n", err, defaultVal)
		return defaultVal
	}
	return val
}

// promptPercent asks for a rate, accepting "7%", "0.07", or "7"
func (b *InteractiveConfigBuilder) promptPercent(prompt string, defaultVal float64) float64 {
	fmt.Printf("%s [%.1f%%]: ", prompt, defaultVal*100)
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}

	pct := strings.HasSuffix(input, "%")
	input = strings.TrimSuffix(input, "%")
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		fmt.Printf("  Not a number, using %.1f%%\n", defaultVal*100)
		return defaultVal
	}
	if pct || val > 1 {
		val /= 100
	}
	if err := validateRate(val); err != nil {
		fmt.Printf("  %v, using %.1f%%\n", err, defaultVal*100)
		return defaultVal
	}
	return val
}

// promptList asks for a comma-separated list of names
func (b *InteractiveConfigBuilder) promptList(prompt string, defaultVal []string) []string {
	fmt.Printf("%s [%s]: ", prompt, strings.Join(defaultVal, ","))
	input, _ := b.reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultVal
	}

	var names []string
	for _, part := range strings.Split(input, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			names = append(names, part)
		}
	}
	if len(names) == 0 {
		return defaultVal
	}
	return names
}
