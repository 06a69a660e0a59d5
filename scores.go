package main

import (
	"fmt"
	"math"
	"sort"
)

// ComputePolicyScores turns the per-outcome table into a ranked policy
// table. In stream mode each row's PV(TNB) is first computed from its
// B0..B3 stream at rate r; in direct mode the entered PV(TNB) is used
// as-is. Each row is weighted by its probability, weights are summed
// per policy into PV(ETNB), and policies are ranked by PV(ETNB)
// descending. The sort is stable, so policies with equal scores keep
// their first-appearance order from the table.
func ComputePolicyScores(rows []OutcomeRow, mode InputMode, r float64) ScoreTable {
	work := make([]OutcomeRow, len(rows))
	copy(work, rows)

	for i := range work {
		if mode == ModeStream {
			work[i].PVTNB = PVOfStream(work[i].Benefits[:], r)
		}
		// NaN in either factor propagates to the weight
		work[i].WeightedPVTNB = work[i].Prob * work[i].PVTNB
	}

	// Group by policy, preserving first-appearance order
	order := make([]string, 0)
	byPolicy := make(map[string]*PolicyScore)
	for _, row := range work {
		score, ok := byPolicy[row.Policy]
		if !ok {
			score = &PolicyScore{Policy: row.Policy}
			byPolicy[row.Policy] = score
			order = append(order, row.Policy)
		}
		score.PVETNB += row.WeightedPVTNB
		score.ProbSum += row.Prob
	}

	scores := make([]PolicyScore, 0, len(order))
	for _, policy := range order {
		scores = append(scores, *byPolicy[policy])
	}

	// Sort descending by PV(ETNB); missing scores sink to the bottom
	sort.SliceStable(scores, func(i, j int) bool {
		a, b := scores[i].PVETNB, scores[j].PVETNB
		if IsMissing(a) {
			return false
		}
		if IsMissing(b) {
			return true
		}
		return a > b
	})

	for i := range scores {
		scores[i].Rank = i + 1
	}

	return ScoreTable{
		Scores:   scores,
		Rows:     work,
		Warnings: probSumWarnings(scores),
	}
}

// probSumWarnings flags policies whose outcome probabilities do not
// sum to roughly 1. Policies with a missing probability sum are
// skipped; the missing cells already show up blank in the results.
func probSumWarnings(scores []PolicyScore) []string {
	var warnings []string
	for _, s := range scores {
		if IsMissing(s.ProbSum) {
			continue
		}
		if math.Abs(s.ProbSum-1.0) > ProbSumTolerance {
			warnings = append(warnings,
				fmt.Sprintf("Policy %s: outcome probabilities sum to %.3f, expected ~1.00", s.Policy, s.ProbSum))
		}
	}
	return warnings
}

// SortRowsForDisplay returns the working rows ordered by policy then
// outcome, the order the per-outcome breakdown is shown in
func SortRowsForDisplay(rows []OutcomeRow) []OutcomeRow {
	out := make([]OutcomeRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Policy != out[j].Policy {
			return out[i].Policy < out[j].Policy
		}
		return out[i].Outcome < out[j].Outcome
	})
	return out
}
