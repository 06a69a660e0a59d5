package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

func main() {
	// Custom usage message
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Greenlight: Policy Choice Optimizer

Ranks policy options by PV(Expected Total Net Benefits) from per-outcome
probabilities and net-benefit data, using Econ 351 discounting. Also
includes a quick PV calculator and a two-period depletable resource
allocation solver.

CALCULATORS:
  POLICY OPTIMIZER (default)
    Enter one row per policy/outcome pair with its probability and either
    a PV(TNB) value directly or a net-benefit stream B0..B3 to discount.
    - Output: policies ranked by PV(ETNB), per-outcome breakdown,
      probability-sum warnings, and the recommended policy.

  PV CALCULATOR (-pv flag)
    Discounts a single stream B0..B3 at rate r: PV = Sum Bi/(1+r)^i.

  DEPLETABLE RESOURCE SOLVER (-resource flag)
    Splits reserves Q across two periods under P = a - bq and constant MC
    so that P1-MC = (P2-MC)/(1+r). Closed form; reports an error when the
    demand slope b is not positive.

SENSITIVITY ANALYSIS (-sensitivity flag)
  Re-ranks the table across a range of discount rates (stream mode only)
  and reports where the recommended policy flips. Requires sensitivity
  settings in config (rate_min, rate_max, step_size).

Usage:
  %s [options]

Options:
`, os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  %s                           Interactive mode selector
  %s -config my.yaml           Use custom configuration file
  %s -ui                       Embedded browser mode (webview window)
  %s -web                      Web server mode (opens external browser)
  %s -web -addr :8080          Web server on specific port

  Console output:
  %s -console                  Rank policies with console output
  %s -details                  Include the per-outcome breakdown
  %s -pv                       Run the PV calculator only
  %s -resource                 Run the resource solver only
  %s -sensitivity              Discount-rate sensitivity of the ranking

  Exports:
  %s -html                     Generate an HTML report in a dated folder
  %s -pdf                      Generate a PDF report
  %s -csv                      Export ranking and breakdown as CSV

Configuration:
  Edit config.yaml to set the input mode, discount rate, the
  policy/outcome table, and the solver parameters. Rates accept decimals
  (0.07) or percentages (7%%).
`, os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0],
			os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0], os.Args[0])
	}

	// Command line flags
	configFile := flag.String("config", "config.yaml", "Path to YAML configuration file")
	showDetails := flag.Bool("details", false, "Show the per-outcome breakdown table in console output")
	generateHTML := flag.Bool("html", false, "Generate an HTML report in a dated folder")
	generatePDF := flag.Bool("pdf", false, "Generate a PDF report in a dated folder")
	exportCSV := flag.Bool("csv", false, "Export ranking and breakdown as CSV in a dated folder")
	runSensitivity := flag.Bool("sensitivity", false, "Re-rank across discount rates and report flips (stream mode)")
	runPVOnly := flag.Bool("pv", false, "Run the standalone PV calculator only")
	runResourceOnly := flag.Bool("resource", false, "Run the two-period depletable resource solver only")
	consoleMode := flag.Bool("console", false, "Use console interface instead of GUI (default is GUI)")
	webMode := flag.Bool("web", false, "Start web server mode (opens external browser)")
	uiMode := flag.Bool("ui", false, "Start embedded browser mode (webview window)")
	webAddr := flag.String("addr", "localhost:0", "Web server address (for -web mode, use :0 for auto port)")
	flag.Parse()

	// Embedded browser mode
	if *uiMode {
		err := runEmbeddedUI(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Embedded UI error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Web server mode (external browser)
	if *webMode {
		config, err := LoadConfig(*configFile)
		if err != nil && !os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
		server := NewWebServer(config, *webAddr)
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "Web server error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Determine if we should run in console mode:
	// - Explicit -console flag, OR
	// - Any output/mode flags set (for automation/scripting)
	useConsole := *consoleMode || *runSensitivity || *generateHTML || *generatePDF ||
		*exportCSV || *showDetails || *runPVOnly || *runResourceOnly

	if useConsole {
		runConsoleMode(*configFile, consoleOptions{
			showDetails:    *showDetails,
			generateHTML:   *generateHTML,
			generatePDF:    *generatePDF,
			exportCSV:      *exportCSV,
			runSensitivity: *runSensitivity,
			runPVOnly:      *runPVOnly,
			runResource:    *runResourceOnly,
		})
		return
	}

	// Default: GUI mode
	err := runGUI(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "GUI error: %v\n", err)
		// Fall back to console mode if GUI fails
		fmt.Println("Falling back to console mode...")
		runConsoleMode(*configFile, consoleOptions{})
	}
}

// consoleOptions collects the console-mode output switches
type consoleOptions struct {
	showDetails    bool
	generateHTML   bool
	generatePDF    bool
	exportCSV      bool
	runSensitivity bool
	runPVOnly      bool
	runResource    bool
}

func (o consoleOptions) anySet() bool {
	return o.showDetails || o.generateHTML || o.generatePDF || o.exportCSV ||
		o.runSensitivity || o.runPVOnly || o.runResource
}

// runConsoleMode runs the application in console/terminal mode
func runConsoleMode(configFile string, opts consoleOptions) {
	// Load configuration
	config, err := LoadConfig(configFile)
	configMissing := os.IsNotExist(err)

	if err != nil && !configMissing {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// If no specific mode flags set, ask the user which mode they want
	if !opts.anySet() {
		switch promptForModeInitial(config, configMissing) {
		case "rank":
			// Default mode, continue
		case "rank-details":
			opts.showDetails = true
		case "rank-html":
			opts.generateHTML = true
		case "rank-pdf":
			opts.generatePDF = true
		case "sensitivity":
			opts.runSensitivity = true
		case "pv":
			opts.runPVOnly = true
		case "resource":
			opts.runResource = true
		case "quit":
			fmt.Println("Goodbye!")
			return
		}
	}

	// If config is missing, build it interactively
	if configMissing {
		builder := NewInteractiveConfigBuilder()
		config = builder.BuildConfig()
		if err := SaveConfig(config, configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error saving config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nConfiguration saved to %s\n", configFile)
		fmt.Println("You can edit this file to adjust settings for future runs.")
		fmt.Println()
	}

	// Standalone calculators short-circuit the ranking
	if opts.runPVOnly {
		PrintPVResult(config.PVBenefits(), config.PVCalc.DiscountRate)
		return
	}
	if opts.runResource {
		sol, err := SolveTwoPeriod(config.Resource)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Resource solver error: %v\n", err)
			os.Exit(1)
		}
		PrintResourceSolution(config.Resource, sol)
		return
	}

	if opts.runSensitivity {
		analysis, err := RunSensitivityAnalysis(config)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Sensitivity error: %v\n", err)
			os.Exit(1)
		}
		PrintSensitivity(analysis)
		return
	}

	// Main path: rank the policy table
	PrintHeader(config)
	table := ComputePolicyScores(config.Rows(), config.Mode(), config.EffectiveDiscountRate())
	PrintRanking(table)

	if opts.showDetails {
		PrintOutcomeDetails(table)
	}

	if opts.generateHTML || opts.generatePDF || opts.exportCSV {
		timestamp := time.Now().Format("2006-01-02_1504")
		outputDir := fmt.Sprintf("reports_%s", timestamp)
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating report folder: %v\n", err)
			return
		}

		if opts.generateHTML {
			reportPath := fmt.Sprintf("%s/ranking.html", outputDir)
			if err := GenerateHTMLReport(table, config, reportPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating HTML report: %v\n", err)
			} else {
				fmt.Printf("Generated %s\n", reportPath)
				openBrowser(reportPath)
			}
		}
		if opts.generatePDF {
			pdfPath := fmt.Sprintf("%s/ranking.pdf", outputDir)
			if err := GeneratePDFReport(table, config, pdfPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error generating PDF report: %v\n", err)
			} else {
				fmt.Printf("Generated %s\n", pdfPath)
			}
		}
		if opts.exportCSV {
			csvPath := fmt.Sprintf("%s/ranking.csv", outputDir)
			if err := ExportScoresCSV(table, csvPath); err != nil {
				fmt.Fprintf(os.Stderr, "Error exporting CSV: %v\n", err)
			} else {
				fmt.Printf("Generated %s\n", csvPath)
			}
		}
	}
}

// openBrowser opens a file in the default browser
func openBrowser(filename string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "linux":
		cmd = exec.Command("xdg-open", filename)
	case "darwin":
		cmd = exec.Command("open", filename)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", filename)
	default:
		fmt.Fprintf(os.Stderr, "Cannot open browser on %s\n", runtime.GOOS)
		return
	}

	err := cmd.Start()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening browser: %v\n", err)
	}
}

// promptForModeInitial asks the user which calculator they want to run.
// Handles both cases: config exists and config is missing.
func promptForModeInitial(config *Config, configMissing bool) string {
	fmt.Println()
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  GREENLIGHT: POLICY CHOICE OPTIMIZER                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	if configMissing {
		fmt.Println("No configuration file found. Select a mode to set up interactively:")
	} else {
		mode := "PV(TNB) entered directly"
		if config.Mode() == ModeStream {
			mode = fmt.Sprintf("B0..B%d streams at r = %s", NumPeriods-1, FormatRate(config.EffectiveDiscountRate()))
		}
		fmt.Printf("Select a calculator (current input mode: %s):\n", mode)
	}
	fmt.Println()
	fmt.Println("  Policy Optimizer (PV(ETNB) ranking):")
	fmt.Println("    1) Console output      - Rank the policy table")
	fmt.Println("    2) With breakdown      - Ranking plus per-outcome calculations")
	fmt.Println("    3) HTML report         - Generate a browser report")
	fmt.Println("    4) PDF report          - Generate a printable report")
	fmt.Println("    5) Sensitivity         - Re-rank across discount rates (stream mode)")
	fmt.Println()
	fmt.Println("  Auxiliary calculators:")
	fmt.Println("    6) PV calculator       - Discount a single B0..B3 stream")
	fmt.Println("    7) Resource solver     - Two-period depletable resource allocation")
	fmt.Println()
	fmt.Println("    q) Quit")
	fmt.Println()
	fmt.Print("Enter choice (1-7 or q): ")

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		return "rank"
	}

	input = strings.TrimSpace(strings.ToLower(input))
	switch input {
	case "1":
		return "rank"
	case "2":
		return "rank-details"
	case "3":
		return "rank-html"
	case "4":
		return "rank-pdf"
	case "5":
		return "sensitivity"
	case "6":
		return "pv"
	case "7":
		return "resource"
	case "q", "quit", "exit":
		return "quit"
	default:
		fmt.Println("Invalid choice, ranking the policy table.")
		return "rank"
	}
}
