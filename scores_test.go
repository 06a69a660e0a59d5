package main

import (
	"math"
	"testing"
)

// Policy Ranking Validation Tests
//
// These tests validate the probability-weighted ranking:
//
//	PV(ETNBj) = Σ Pij × PV(TNBij)   summed over policy j's outcomes
//
// with policies sorted by PV(ETNB) descending.

// makeRow builds a direct-entry outcome row
func makeRow(policy, outcome string, prob, pvtnb float64) OutcomeRow {
	return OutcomeRow{Policy: policy, Outcome: outcome, Prob: prob, PVTNB: pvtnb}
}

// =============================================================================
// Direct Mode Ranking
// =============================================================================

func TestComputePolicyScores_HigherPVWins(t *testing.T) {
	rows := []OutcomeRow{
		makeRow("X", "only", 1.0, 50),
		makeRow("Y", "only", 1.0, 30),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if len(table.Scores) != 2 {
		t.Fatalf("Expected 2 policies, got %d", len(table.Scores))
	}
	if table.Scores[0].Policy != "X" || table.Scores[0].Rank != 1 {
		t.Errorf("Policy X (PV 50) should rank 1st, got %s at rank %d",
			table.Scores[0].Policy, table.Scores[0].Rank)
	}
	if table.Scores[1].Policy != "Y" || table.Scores[1].Rank != 2 {
		t.Errorf("Policy Y (PV 30) should rank 2nd, got %s at rank %d",
			table.Scores[1].Policy, table.Scores[1].Rank)
	}

	best := table.Recommended()
	if best == nil || best.Policy != "X" {
		t.Errorf("Recommended policy should be X, got %+v", best)
	}
}

func TestComputePolicyScores_ProbabilityWeighting(t *testing.T) {
	// Policy A: 0.5 chance of 100, 0.5 chance of 0 -> PV(ETNB) = 50
	// Policy B: certain 40                          -> PV(ETNB) = 40
	rows := []OutcomeRow{
		makeRow("A", "good", 0.5, 100),
		makeRow("A", "bad", 0.5, 0),
		makeRow("B", "only", 1.0, 40),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	assertFloatEquals(t, 50, table.Scores[0].PVETNB, "policy A expected score")
	assertFloatEquals(t, 40, table.Scores[1].PVETNB, "policy B expected score")
	if table.Scores[0].Policy != "A" {
		t.Errorf("Policy A should win on expected value, got %s", table.Scores[0].Policy)
	}
}

func TestComputePolicyScores_RiskyVsSafe(t *testing.T) {
	// A risky policy with a slightly higher expected value outranks a
	// safe one: the ranking is risk-neutral.
	rows := []OutcomeRow{
		makeRow("Risky", "boom", 0.1, 510),
		makeRow("Risky", "bust", 0.9, 0),
		makeRow("Safe", "only", 1.0, 50),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if table.Scores[0].Policy != "Risky" {
		t.Errorf("Risky (E=51) should outrank Safe (E=50), got %s first", table.Scores[0].Policy)
	}
}

func TestComputePolicyScores_TiesKeepTableOrder(t *testing.T) {
	// Equal scores keep first-appearance order from the table
	rows := []OutcomeRow{
		makeRow("Second", "o", 1.0, 25),
		makeRow("First", "o", 1.0, 25),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if table.Scores[0].Policy != "Second" {
		t.Errorf("Tied policies should keep table order (Second first), got %s", table.Scores[0].Policy)
	}
}

// =============================================================================
// Stream Mode Ranking
// =============================================================================

func TestComputePolicyScores_StreamMode(t *testing.T) {
	rows := []OutcomeRow{
		{Policy: "A", Outcome: "o", Prob: 1.0, Benefits: [NumPeriods]float64{100, 100, 100, 100}},
	}

	table := ComputePolicyScores(rows, ModeStream, 0.0)

	assertFloatEquals(t, 400, table.Scores[0].PVETNB, "100x4 at 0% should score 400")
}

func TestComputePolicyScores_StreamModeDiscounts(t *testing.T) {
	// Same totals, different timing: early money wins at a positive rate
	rows := []OutcomeRow{
		{Policy: "Early", Outcome: "o", Prob: 1.0, Benefits: [NumPeriods]float64{100, 0, 0, 0}},
		{Policy: "Late", Outcome: "o", Prob: 1.0, Benefits: [NumPeriods]float64{0, 0, 0, 100}},
	}

	table := ComputePolicyScores(rows, ModeStream, 0.07)

	if table.Scores[0].Policy != "Early" {
		t.Errorf("Early benefits should win at 7%%, got %s first", table.Scores[0].Policy)
	}
	assertFloatEquals(t, 100, table.Scores[0].PVETNB, "undiscounted period-0 benefit")
	assertFloatEquals(t, 100/(1.07*1.07*1.07), table.Scores[1].PVETNB, "period-3 benefit at 7%")
}

func TestComputePolicyScores_StreamModeIgnoresDirectPV(t *testing.T) {
	// In stream mode the entered PV(TNB) column is recomputed, not used
	rows := []OutcomeRow{
		{Policy: "A", Outcome: "o", Prob: 1.0, PVTNB: 9999,
			Benefits: [NumPeriods]float64{10, 0, 0, 0}},
	}

	table := ComputePolicyScores(rows, ModeStream, 0.05)

	assertFloatEquals(t, 10, table.Scores[0].PVETNB, "stream PV overrides direct entry")
}

// =============================================================================
// Missing Values
// =============================================================================

func TestComputePolicyScores_MissingCellBlanksPolicy(t *testing.T) {
	rows := []OutcomeRow{
		makeRow("OK", "o", 1.0, 50),
		makeRow("Broken", "o", 1.0, math.NaN()),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if table.Scores[0].Policy != "OK" {
		t.Errorf("Policy with a missing score should sink below a scored one, got %s first",
			table.Scores[0].Policy)
	}
	if !IsMissing(table.Scores[1].PVETNB) {
		t.Errorf("Broken policy's score should be missing, got %.4f", table.Scores[1].PVETNB)
	}
	if table.Scores[1].Rank != 2 {
		t.Errorf("Missing score still gets a rank, expected 2, got %d", table.Scores[1].Rank)
	}
}

func TestComputePolicyScores_MissingProbBlanksWeight(t *testing.T) {
	rows := []OutcomeRow{
		makeRow("A", "o1", math.NaN(), 50),
		makeRow("A", "o2", 0.5, 30),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if !IsMissing(table.Scores[0].PVETNB) {
		t.Errorf("One missing probability should blank the policy score, got %.4f",
			table.Scores[0].PVETNB)
	}
	if !IsMissing(table.Scores[0].ProbSum) {
		t.Errorf("Probability sum should be missing too, got %.4f", table.Scores[0].ProbSum)
	}
}

func TestRecommended_NilWhenTopMissing(t *testing.T) {
	rows := []OutcomeRow{
		makeRow("A", "o", 1.0, math.NaN()),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if best := table.Recommended(); best != nil {
		t.Errorf("No recommendation when the top score is missing, got %+v", best)
	}
}

func TestRecommended_NilWhenEmpty(t *testing.T) {
	table := ComputePolicyScores(nil, ModeDirect, 0.07)
	if best := table.Recommended(); best != nil {
		t.Errorf("No recommendation for an empty table, got %+v", best)
	}
}

// =============================================================================
// Probability Sum Warnings
// =============================================================================

func TestProbSumWarnings(t *testing.T) {
	tests := []struct {
		probs       []float64
		wantWarning bool
		description string
	}{
		{[]float64{0.5, 0.5}, false, "exact sum"},
		{[]float64{0.333, 0.333, 0.333}, false, "0.999 within tolerance"},
		{[]float64{0.5, 0.51}, false, "1.01 within tolerance"},
		{[]float64{0.5, 0.3}, true, "0.8 flagged"},
		{[]float64{0.7, 0.7}, true, "1.4 flagged"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			var rows []OutcomeRow
			for i, p := range tc.probs {
				rows = append(rows, makeRow("A", string(rune('a'+i)), p, 10))
			}

			table := ComputePolicyScores(rows, ModeDirect, 0.07)

			if tc.wantWarning && len(table.Warnings) == 0 {
				t.Errorf("Expected a probability-sum warning, got none")
			}
			if !tc.wantWarning && len(table.Warnings) > 0 {
				t.Errorf("Expected no warning, got %v", table.Warnings)
			}
		})
	}
}

func TestProbSumWarnings_SkipsMissingSums(t *testing.T) {
	rows := []OutcomeRow{
		makeRow("A", "o", math.NaN(), 10),
	}

	table := ComputePolicyScores(rows, ModeDirect, 0.07)

	if len(table.Warnings) != 0 {
		t.Errorf("Missing probability sums should not warn, got %v", table.Warnings)
	}
}

// =============================================================================
// Display Ordering
// =============================================================================

func TestSortRowsForDisplay(t *testing.T) {
	rows := []OutcomeRow{
		makeRow("B", "z", 1, 1),
		makeRow("A", "y", 1, 1),
		makeRow("B", "a", 1, 1),
		makeRow("A", "x", 1, 1),
	}

	sorted := SortRowsForDisplay(rows)

	want := []struct{ policy, outcome string }{
		{"A", "x"}, {"A", "y"}, {"B", "a"}, {"B", "z"},
	}
	for i, w := range want {
		if sorted[i].Policy != w.policy || sorted[i].Outcome != w.outcome {
			t.Errorf("Row %d: expected %s/%s, got %s/%s",
				i, w.policy, w.outcome, sorted[i].Policy, sorted[i].Outcome)
		}
	}

	// Input order untouched
	if rows[0].Policy != "B" || rows[0].Outcome != "z" {
		t.Errorf("SortRowsForDisplay should not mutate its input")
	}
}
