package main

import (
	_ "embed"
	"os"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"
)

//go:embed default-config.yaml
var defaultConfigYAML string

// TableRowConfig is one editable row of the policy/outcome table.
// Numeric cells are kept as raw strings so blank or mistyped entries
// survive a save/load round-trip exactly as the user typed them and
// coerce to missing values only at compute time.
type TableRowConfig struct {
	Policy  string `yaml:"policy" json:"policy"`
	Outcome string `yaml:"outcome" json:"outcome"`
	Prob    string `yaml:"prob" json:"prob"`
	PVTNB   string `yaml:"pv_tnb" json:"pv_tnb"`
	B0      string `yaml:"b0" json:"b0"`
	B1      string `yaml:"b1" json:"b1"`
	B2      string `yaml:"b2" json:"b2"`
	B3      string `yaml:"b3" json:"b3"`
}

// Row coerces the raw cells into an OutcomeRow
func (t *TableRowConfig) Row() OutcomeRow {
	return OutcomeRow{
		Policy:  t.Policy,
		Outcome: t.Outcome,
		Prob:    ParseCell(t.Prob),
		PVTNB:   ParseCell(t.PVTNB),
		Benefits: [NumPeriods]float64{
			ParseCell(t.B0), ParseCell(t.B1), ParseCell(t.B2), ParseCell(t.B3),
		},
	}
}

// OptimizerConfig holds the policy ranking settings
type OptimizerConfig struct {
	// InputMode: "direct" to enter PV(TNB) per outcome, "stream" to
	// enter B0..B3 and discount at the rate below
	InputMode    string  `yaml:"input_mode" json:"input_mode"`
	DiscountRate float64 `yaml:"discount_rate" json:"discount_rate"`
	// RateSource: "custom" for the rate above, or a preset ID (e.g., "omb_base")
	RateSource string           `yaml:"rate_source,omitempty" json:"rate_source,omitempty"`
	Table      []TableRowConfig `yaml:"table" json:"table"`
}

// PVCalcConfig holds the standalone PV calculator settings
type PVCalcConfig struct {
	DiscountRate float64  `yaml:"discount_rate" json:"discount_rate"`
	Benefits     []string `yaml:"benefits" json:"benefits"` // B0..B3, raw cells
}

// SensitivityConfig holds the discount-rate sweep settings
type SensitivityConfig struct {
	RateMin  float64 `yaml:"rate_min" json:"rate_min"`
	RateMax  float64 `yaml:"rate_max" json:"rate_max"`
	StepSize float64 `yaml:"step_size" json:"step_size"`
}

// Config is the full application configuration from YAML
type Config struct {
	Optimizer   OptimizerConfig   `yaml:"optimizer" json:"optimizer"`
	PVCalc      PVCalcConfig      `yaml:"pv_calculator" json:"pv_calculator"`
	Resource    ResourceParams    `yaml:"resource" json:"resource"`
	Sensitivity SensitivityConfig `yaml:"sensitivity" json:"sensitivity"`
}

// Mode returns the configured input mode, defaulting to direct entry
func (c *Config) Mode() InputMode {
	if c.Optimizer.InputMode == string(ModeStream) {
		return ModeStream
	}
	return ModeDirect
}

// EffectiveDiscountRate resolves the ranking discount rate, honouring
// a selected preset over the custom rate
func (c *Config) EffectiveDiscountRate() float64 {
	if c.Optimizer.RateSource != "" && c.Optimizer.RateSource != "custom" {
		if preset := GetRatePresetByID(c.Optimizer.RateSource); preset != nil {
			return preset.Rate
		}
	}
	return c.Optimizer.DiscountRate
}

// Rows coerces the configured table into outcome rows
func (c *Config) Rows() []OutcomeRow {
	rows := make([]OutcomeRow, len(c.Optimizer.Table))
	for i := range c.Optimizer.Table {
		rows[i] = c.Optimizer.Table[i].Row()
	}
	return rows
}

// PVBenefits coerces the PV calculator's benefit cells, padded or
// truncated to NumPeriods entries
func (c *Config) PVBenefits() []float64 {
	benefits := make([]float64, NumPeriods)
	for i := range benefits {
		if i < len(c.PVCalc.Benefits) {
			benefits[i] = ParseCell(c.PVCalc.Benefits[i])
		}
	}
	return benefits
}

// DefaultTable builds the seed table: 4 policies × 3 outcomes with
// equal probabilities, matching the layout of the course notes
func DefaultTable() []TableRowConfig {
	policies := []string{"A", "B", "C", "D"}
	outcomes := []string{"E", "F", "G"}
	table := make([]TableRowConfig, 0, len(policies)*len(outcomes))
	for _, p := range policies {
		for _, o := range outcomes {
			table = append(table, TableRowConfig{
				Policy: p, Outcome: o,
				Prob: "0.333", PVTNB: "0",
				B0: "0", B1: "0", B2: "0", B3: "0",
			})
		}
	}
	return table
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config Config
	err = yaml.Unmarshal([]byte(preprocessPercentages(string(data))), &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filename string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	header := []byte(`# Greenlight: Policy Choice Optimizer configuration
# Edit by hand or let the app rewrite it as you work.
#
# optimizer.input_mode:
#   direct - enter PV(TNB) per outcome directly
#   stream - enter net benefits B0..B3 and discount at optimizer.discount_rate
# optimizer.rate_source: "custom", or a preset ID such as "omb_base"
# Rates may be written as decimals (0.07) or percentages (7%).
#
# Table cells are strings on purpose: a blank or mistyped cell becomes
# a missing value at compute time instead of an error.
`)

	return os.WriteFile(filename, append(header, data...), 0644)
}

// LoadDefaultConfig returns the embedded default configuration
func LoadDefaultConfig() (*Config, error) {
	var config Config
	err := yaml.Unmarshal([]byte(preprocessPercentages(defaultConfigYAML)), &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)
	return &config, nil
}

// applyDefaults fills gaps a hand-edited config may leave
func applyDefaults(config *Config) {
	if config.Optimizer.InputMode == "" {
		config.Optimizer.InputMode = string(ModeDirect)
	}
	if len(config.Optimizer.Table) == 0 {
		config.Optimizer.Table = DefaultTable()
	}
	if config.PVCalc.DiscountRate == 0 && config.Optimizer.DiscountRate > 0 {
		config.PVCalc.DiscountRate = config.Optimizer.DiscountRate
	}
	if len(config.PVCalc.Benefits) == 0 {
		config.PVCalc.Benefits = []string{"0", "0", "0", "0"}
	}
	if config.Resource == (ResourceParams{}) {
		config.Resource = ResourceParams{A: 8, B: 0.4, MC: 2, Rate: 0.10, Reserves: 20}
	}
	if config.Sensitivity.StepSize == 0 {
		config.Sensitivity = SensitivityConfig{RateMin: 0.0, RateMax: 0.30, StepSize: 0.005}
	}
}

// preprocessPercentages converts percentage values like "7%" to
// decimal "0.07" before YAML parsing, so rates read naturally
func preprocessPercentages(content string) string {
	re := regexp.MustCompile(`(:\s*)(\d+\.?\d*)%`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) >= 3 {
			num, err := strconv.ParseFloat(parts[2], 64)
			if err == nil {
				return parts[1] + strconv.FormatFloat(num/100.0, 'f', -1, 64)
			}
		}
		return match
	})
}
