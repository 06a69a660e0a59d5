package main

import (
	"fmt"
	"math"
)

// RunSensitivityAnalysis recomputes the ranking at each discount rate
// in [rate_min, rate_max] stepping by step_size, and records where the
// recommended policy flips. Only meaningful in stream mode: with PV
// values entered directly the ranking does not depend on r.
func RunSensitivityAnalysis(config *Config) (*SensitivityAnalysis, error) {
	if config.Mode() != ModeStream {
		return nil, fmt.Errorf("sensitivity analysis requires stream input mode: direct PV entries do not depend on the discount rate")
	}

	s := config.Sensitivity
	if s.StepSize <= 0 {
		return nil, fmt.Errorf("sensitivity step_size must be > 0 (got %g)", s.StepSize)
	}
	if s.RateMax < s.RateMin {
		return nil, fmt.Errorf("sensitivity rate_max %.3f is below rate_min %.3f", s.RateMax, s.RateMin)
	}

	rows := config.Rows()
	analysis := &SensitivityAnalysis{}

	prevBest := ""
	// Epsilon keeps the endpoint included despite float stepping
	for r := s.RateMin; r <= s.RateMax+s.StepSize/100; r += s.StepSize {
		rate := math.Round(r*1e9) / 1e9
		table := ComputePolicyScores(rows, ModeStream, rate)

		point := RatePoint{Rate: rate, Scores: table.Scores}
		if best := table.Recommended(); best != nil {
			point.BestPolicy = best.Policy
			point.BestPVETNB = best.PVETNB
		}
		analysis.Points = append(analysis.Points, point)

		if prevBest != "" && point.BestPolicy != "" && point.BestPolicy != prevBest {
			analysis.FlipRates = append(analysis.FlipRates, rate)
		}
		if point.BestPolicy != "" {
			prevBest = point.BestPolicy
		}
	}

	return analysis, nil
}

// WinnerRanges collapses the sweep into contiguous rate ranges with
// the same recommended policy, for compact display
type WinnerRange struct {
	Policy   string
	RateFrom float64
	RateTo   float64
}

// WinnerRanges returns the recommended policy per contiguous rate range
func (a *SensitivityAnalysis) WinnerRanges() []WinnerRange {
	var ranges []WinnerRange
	for _, p := range a.Points {
		if p.BestPolicy == "" {
			continue
		}
		if len(ranges) > 0 && ranges[len(ranges)-1].Policy == p.BestPolicy {
			ranges[len(ranges)-1].RateTo = p.Rate
			continue
		}
		ranges = append(ranges, WinnerRange{Policy: p.BestPolicy, RateFrom: p.Rate, RateTo: p.Rate})
	}
	return ranges
}
