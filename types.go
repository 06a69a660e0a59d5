package main

// InputMode selects how each outcome's PV(TNB) is obtained
type InputMode string

const (
	// ModeDirect means PV(TNB) is entered directly per outcome
	ModeDirect InputMode = "direct"
	// ModeStream means PV(TNB) is computed from the B0..B3 net-benefit
	// stream at the current discount rate
	ModeStream InputMode = "stream"
)

// NumPeriods is the number of net-benefit periods in the editable table (B0..B3)
const NumPeriods = 4

// ProbSumTolerance is how far a policy's outcome probabilities may sum
// away from 1.0 before a warning is raised
const ProbSumTolerance = 0.02

// OutcomeRow is one policy/outcome line of the table after coercion.
// Numeric fields use NaN as the missing-value marker; missing values
// propagate through the aggregation instead of raising errors.
type OutcomeRow struct {
	Policy   string
	Outcome  string
	Prob     float64
	PVTNB    float64
	Benefits [NumPeriods]float64

	// WeightedPVTNB = Prob × PVTNB, filled in during scoring
	WeightedPVTNB float64
}

// PolicyScore is the aggregated score for one policy
type PolicyScore struct {
	Rank    int // 1 = highest PV(ETNB)
	Policy  string
	PVETNB  float64 // Σ Prob × PV(TNB) across the policy's outcomes
	ProbSum float64 // Σ Prob across the policy's outcomes
}

// ScoreTable holds the full result of one ranking computation:
// the ranked scores, the per-outcome working rows with PV and weight
// columns filled, and any probability-sum warnings.
type ScoreTable struct {
	Scores   []PolicyScore
	Rows     []OutcomeRow
	Warnings []string
}

// Recommended returns the rank-1 policy, or nil when the table is
// empty or the top score is missing (all of its inputs unparseable).
func (st *ScoreTable) Recommended() *PolicyScore {
	if len(st.Scores) == 0 {
		return nil
	}
	best := &st.Scores[0]
	if IsMissing(best.PVETNB) {
		return nil
	}
	return best
}

// ResourceParams are the inputs to the two-period depletable resource
// solver: linear inverse demand P = a − bq, constant marginal cost MC,
// discount rate r, and total recoverable reserves Q.
type ResourceParams struct {
	A        float64 `yaml:"a" json:"a"`
	B        float64 `yaml:"b" json:"b"`
	MC       float64 `yaml:"mc" json:"mc"`
	Rate     float64 `yaml:"discount_rate" json:"discount_rate"`
	Reserves float64 `yaml:"reserves" json:"reserves"`
}

// ResourceSolution is the closed-form efficient allocation q1*, q2*
// with derived prices and marginal net benefits, plus both sides of
// the dynamic efficiency condition P1−MC = (P2−MC)/(1+r) for the
// self-check shown to the user.
type ResourceSolution struct {
	Q1   float64
	Q2   float64
	P1   float64
	P2   float64
	MNB1 float64 // (a − mc) − b·q1
	MNB2 float64 // (a − mc) − b·q2

	CheckLHS float64 // P1 − MC
	CheckRHS float64 // (P2 − MC)/(1+r)
}

// RatePoint is one discount rate's ranking in a sensitivity sweep
type RatePoint struct {
	Rate       float64
	Scores     []PolicyScore
	BestPolicy string
	BestPVETNB float64
}

// SensitivityAnalysis is the ranking recomputed across a discount-rate
// range, with the rates at which the recommended policy changes.
type SensitivityAnalysis struct {
	Points    []RatePoint
	FlipRates []float64 // rates where the rank-1 policy differs from the previous step
}
