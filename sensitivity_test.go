package main

import (
	"strings"
	"testing"
)

// Discount-Rate Sensitivity Tests
//
// The sweep recomputes the ranking at each rate in
// [rate_min, rate_max] and records where the winner flips.

// sweepConfig builds a stream-mode config with one certain outcome per
// policy, so the winner depends only on the timing of the benefits
func sweepConfig(rateMin, rateMax, step float64) *Config {
	return &Config{
		Optimizer: OptimizerConfig{
			InputMode: string(ModeStream),
			Table: []TableRowConfig{
				// Late: big payoff in period 3
				{Policy: "Late", Outcome: "only", Prob: "1", B0: "0", B1: "0", B2: "0", B3: "150"},
				// Early: smaller payoff up front
				{Policy: "Early", Outcome: "only", Prob: "1", B0: "100", B1: "0", B2: "0", B3: "0"},
			},
		},
		Sensitivity: SensitivityConfig{RateMin: rateMin, RateMax: rateMax, StepSize: step},
	}
}

// =============================================================================
// Flip Detection
// =============================================================================

func TestRunSensitivityAnalysis_DetectsFlip(t *testing.T) {
	// Late wins while 150/(1+r)^3 > 100, i.e. r below about 14.5%.
	// Sweeping 0..30% in 1% steps must flip exactly once, at 15%.
	analysis, err := RunSensitivityAnalysis(sweepConfig(0, 0.30, 0.01))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if len(analysis.Points) != 31 {
		t.Errorf("0..30%% in 1%% steps should give 31 points, got %d", len(analysis.Points))
	}
	if analysis.Points[0].BestPolicy != "Late" {
		t.Errorf("Late should win at r=0, got %s", analysis.Points[0].BestPolicy)
	}
	if last := analysis.Points[len(analysis.Points)-1]; last.BestPolicy != "Early" {
		t.Errorf("Early should win at r=30%%, got %s", last.BestPolicy)
	}

	if len(analysis.FlipRates) != 1 {
		t.Fatalf("Expected exactly one flip, got %v", analysis.FlipRates)
	}
	assertFloatEquals(t, 0.15, analysis.FlipRates[0], "flip rate")
}

func TestRunSensitivityAnalysis_StableWinnerNoFlips(t *testing.T) {
	config := sweepConfig(0, 0.30, 0.01)
	// Make Early dominate at every rate
	config.Optimizer.Table[1].B0 = "500"

	analysis, err := RunSensitivityAnalysis(config)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	if len(analysis.FlipRates) != 0 {
		t.Errorf("Dominant policy should never flip, got %v", analysis.FlipRates)
	}
	for _, p := range analysis.Points {
		if p.BestPolicy != "Early" {
			t.Errorf("Early should win at r=%.2f, got %s", p.Rate, p.BestPolicy)
		}
	}
}

func TestRunSensitivityAnalysis_IncludesEndpoints(t *testing.T) {
	analysis, err := RunSensitivityAnalysis(sweepConfig(0.05, 0.10, 0.005))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	first := analysis.Points[0]
	last := analysis.Points[len(analysis.Points)-1]
	assertFloatEquals(t, 0.05, first.Rate, "sweep start")
	assertFloatEquals(t, 0.10, last.Rate, "sweep end despite float stepping")
}

// =============================================================================
// Winner Ranges
// =============================================================================

func TestWinnerRanges_CollapsesContiguousWinners(t *testing.T) {
	analysis, err := RunSensitivityAnalysis(sweepConfig(0, 0.30, 0.01))
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}

	ranges := analysis.WinnerRanges()
	if len(ranges) != 2 {
		t.Fatalf("One flip should give two ranges, got %d: %+v", len(ranges), ranges)
	}

	if ranges[0].Policy != "Late" || ranges[1].Policy != "Early" {
		t.Errorf("Expected Late then Early, got %s then %s", ranges[0].Policy, ranges[1].Policy)
	}
	assertFloatEquals(t, 0, ranges[0].RateFrom, "first range start")
	assertFloatEquals(t, 0.14, ranges[0].RateTo, "first range end")
	assertFloatEquals(t, 0.15, ranges[1].RateFrom, "second range start")
	assertFloatEquals(t, 0.30, ranges[1].RateTo, "second range end")
}

// =============================================================================
// Input Validation
// =============================================================================

func TestRunSensitivityAnalysis_RejectsDirectMode(t *testing.T) {
	config := sweepConfig(0, 0.30, 0.01)
	config.Optimizer.InputMode = string(ModeDirect)

	_, err := RunSensitivityAnalysis(config)
	if err == nil {
		t.Fatal("Direct mode should be rejected: the ranking does not depend on r")
	}
	if !strings.Contains(err.Error(), "stream") {
		t.Errorf("Error should point at stream mode, got %q", err.Error())
	}
}

func TestRunSensitivityAnalysis_RejectsBadSweepParams(t *testing.T) {
	if _, err := RunSensitivityAnalysis(sweepConfig(0, 0.30, 0)); err == nil {
		t.Error("Zero step size should be rejected")
	}
	if _, err := RunSensitivityAnalysis(sweepConfig(0, 0.30, -0.01)); err == nil {
		t.Error("Negative step size should be rejected")
	}
	if _, err := RunSensitivityAnalysis(sweepConfig(0.20, 0.10, 0.01)); err == nil {
		t.Error("rate_max below rate_min should be rejected")
	}
}
