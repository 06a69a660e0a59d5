package main

import (
	"fmt"
	"strings"
)

// FormatNumber formats a value for display, blank when missing
func FormatNumber(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%.2f", v)
}

// FormatNumber4 formats a value at solver precision, blank when missing
func FormatNumber4(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%.4f", v)
}

// FormatRate formats a discount rate as a percentage
func FormatRate(r float64) string {
	return fmt.Sprintf("%.1f%%", r*100)
}

// PrintHeader prints the run header with the configuration summary
func PrintHeader(config *Config) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                  GREENLIGHT: POLICY CHOICE OPTIMIZER                         ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println("──────────────")

	if config.Mode() == ModeStream {
		fmt.Printf("  Input mode: net-benefit streams B0..B%d, discounted at r = %s\n",
			NumPeriods-1, FormatRate(config.EffectiveDiscountRate()))
	} else {
		fmt.Println("  Input mode: PV(TNB) entered directly per outcome")
	}
	if src := config.Optimizer.RateSource; src != "" && src != "custom" {
		if preset := GetRatePresetByID(src); preset != nil {
			fmt.Printf("  Rate source: %s — %s\n", preset.Name, preset.Description)
		}
	}

	policies := make(map[string]bool)
	for _, row := range config.Optimizer.Table {
		policies[row.Policy] = true
	}
	fmt.Printf("  Table: %d rows, %d policies\n", len(config.Optimizer.Table), len(policies))
	fmt.Println()
}

// PrintRanking prints the ranked policy table and the recommendation
func PrintRanking(table ScoreTable) {
	fmt.Println("Ranking (higher PV(ETNB) is better):")
	fmt.Println()
	fmt.Printf("  %-5s %-10s %14s %10s\n", "Rank", "Policy", "PV(ETNB)", "Σ Prob")
	fmt.Println("  " + strings.Repeat("─", 42))
	for _, s := range table.Scores {
		fmt.Printf("  %-5d %-10s %14s %10s\n",
			s.Rank, s.Policy, FormatNumber(s.PVETNB), formatProbSum(s.ProbSum))
	}
	fmt.Println("  " + strings.Repeat("─", 42))
	fmt.Println()

	if best := table.Recommended(); best != nil {
		fmt.Printf("  Recommended policy: %s (PV(ETNB) = %s)\n", best.Policy, FormatNumber(best.PVETNB))
	} else {
		fmt.Println("  No recommendation: top score is missing. Check the table for blank or non-numeric cells.")
	}

	for _, w := range table.Warnings {
		fmt.Printf("  ⚠️  %s\n", w)
	}
	fmt.Println()
}

func formatProbSum(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return fmt.Sprintf("%.3f", v)
}

// PrintOutcomeDetails prints the per-outcome working table that feeds
// the ranking, sorted by policy then outcome
func PrintOutcomeDetails(table ScoreTable) {
	fmt.Println("Detailed calculations (per outcome):")
	fmt.Println()
	fmt.Printf("  %-8s %-8s %10s %14s %18s\n", "Policy", "Outcome", "Prob", "PV(TNB)", "Prob × PV(TNB)")
	fmt.Println("  " + strings.Repeat("─", 62))
	for _, row := range SortRowsForDisplay(table.Rows) {
		fmt.Printf("  %-8s %-8s %10s %14s %18s\n",
			row.Policy, row.Outcome,
			formatProbSum(row.Prob), FormatNumber(row.PVTNB), FormatNumber(row.WeightedPVTNB))
	}
	fmt.Println("  " + strings.Repeat("─", 62))
	fmt.Println()
}

// PrintPVResult prints the standalone PV calculator result
func PrintPVResult(benefits []float64, r float64) {
	pv := PVOfStream(benefits, r)
	fmt.Println("PV Calculator:")
	fmt.Println()
	for i, b := range benefits {
		fmt.Printf("  B%d = %-12s (PV factor %.4f)\n", i, FormatNumber(b), PVFactor(r, i))
	}
	fmt.Println("  " + strings.Repeat("─", 40))
	fmt.Printf("  PV(B0..B%d) at r = %s:  %s\n", len(benefits)-1, FormatRate(r), FormatNumber(pv))
	fmt.Println()
	fmt.Println("  Uses PV(stream) = Σ Bi/(1+r)^i")
	fmt.Println()
}

// PrintResourceSolution prints the two-period allocation with the
// efficiency self-check
func PrintResourceSolution(params ResourceParams, sol *ResourceSolution) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║          DEPLETABLE RESOURCE ALLOCATION (2-PERIOD DYNAMIC EFFICIENCY)        ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("  Inverse demand: P = %.4g − %.4g·q | MC = %.4g | r = %s | Q = %.4g\n",
		params.A, params.B, params.MC, FormatRate(params.Rate), params.Reserves)
	fmt.Println()
	fmt.Println("Solution:")
	fmt.Printf("  q1* = %s    q2* = %s\n", FormatNumber4(sol.Q1), FormatNumber4(sol.Q2))
	fmt.Printf("  P1* = %s    P2* = %s\n", FormatNumber4(sol.P1), FormatNumber4(sol.P2))
	fmt.Printf("  MNB1 = %s   MNB2 = %s\n", FormatNumber4(sol.MNB1), FormatNumber4(sol.MNB2))
	fmt.Println()
	fmt.Printf("  Check: P1−MC = %s and (P2−MC)/(1+r) = %s (should match)\n",
		FormatNumber4(sol.CheckLHS), FormatNumber4(sol.CheckRHS))
	fmt.Println()
}

// PrintSensitivity prints the winner per discount-rate range and any
// rank-flip points
func PrintSensitivity(analysis *SensitivityAnalysis) {
	fmt.Println("╔══════════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║               DISCOUNT-RATE SENSITIVITY (STREAM MODE RANKING)                ║")
	fmt.Println("╚══════════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()

	ranges := analysis.WinnerRanges()
	if len(ranges) == 0 {
		fmt.Println("  No recommendation at any rate. Check the table for blank or non-numeric cells.")
		fmt.Println()
		return
	}

	fmt.Printf("  %-22s %-10s\n", "Rate range", "Winner")
	fmt.Println("  " + strings.Repeat("─", 34))
	for _, wr := range ranges {
		fmt.Printf("  %8s – %-10s  %-10s\n", FormatRate(wr.RateFrom), FormatRate(wr.RateTo), wr.Policy)
	}
	fmt.Println("  " + strings.Repeat("─", 34))
	fmt.Println()

	if len(analysis.FlipRates) == 0 {
		fmt.Println("  The recommendation is stable across the whole rate range.")
	} else {
		flips := make([]string, len(analysis.FlipRates))
		for i, r := range analysis.FlipRates {
			flips[i] = FormatRate(r)
		}
		fmt.Printf("  Recommendation flips at: %s\n", strings.Join(flips, ", "))
	}
	fmt.Println()
}
