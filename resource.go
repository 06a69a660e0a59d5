package main

import "fmt"

// SolveTwoPeriod allocates fixed reserves Q across two periods so that
// discounted marginal net benefits are equal in present-value terms:
//
//	MNB1 = MNB2/(1+r)  with  MNBt = (a − mc) − b·qt  and  q1 + q2 = Q
//
// which for linear demand and constant marginal cost has the closed
// form q1 = (r(a−mc) + bQ) / (b(2+r)). The demand slope b must be
// strictly positive; the closed form divides by it.
func SolveTwoPeriod(p ResourceParams) (*ResourceSolution, error) {
	if p.B <= 0 {
		return nil, fmt.Errorf("b must be > 0 (got %g)", p.B)
	}

	q1 := (p.Rate*(p.A-p.MC) + p.B*p.Reserves) / (p.B * (2 + p.Rate))
	q2 := p.Reserves - q1

	sol := &ResourceSolution{
		Q1:   q1,
		Q2:   q2,
		P1:   p.A - p.B*q1,
		P2:   p.A - p.B*q2,
		MNB1: (p.A - p.MC) - p.B*q1,
		MNB2: (p.A - p.MC) - p.B*q2,
	}

	// Self-check the efficiency condition so the caller can display it
	sol.CheckLHS = sol.P1 - p.MC
	sol.CheckRHS = (sol.P2 - p.MC) / (1 + p.Rate)

	return sol, nil
}
