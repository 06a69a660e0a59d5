package main

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// PVFactor returns the discount factor 1/(1+r)^n for period n
func PVFactor(r float64, n int) float64 {
	return 1.0 / math.Pow(1.0+r, float64(n))
}

// PVOfStream returns the present value of a net-benefit stream:
// PV(B0..Bn) = Σ Bi/(1+r)^i. Period 0 is undiscounted. A missing
// value (NaN) anywhere in the stream makes the result missing.
func PVOfStream(benefits []float64, r float64) float64 {
	pv := 0.0
	for i, b := range benefits {
		pv += b * PVFactor(r, i)
	}
	return pv
}

// PVOfSingle returns the present value of a single benefit received
// in period n: PV(Bn) = Bn/(1+r)^n
func PVOfSingle(benefit, r float64, n int) float64 {
	return benefit * PVFactor(r, n)
}

// thousandsPattern matches numbers with well-placed separators
// ("1,200" or "1,200,000.5"); anything else containing a comma is a
// typo and must coerce to missing, not silently concatenate digits.
var thousandsPattern = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)

// ParseCell coerces a raw table cell to a float64. Blank or
// unparseable input becomes NaN (the missing-value marker) rather
// than an error, so a typo in one cell blanks that row's results
// instead of aborting the recompute.
func ParseCell(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	if strings.Contains(s, ",") {
		if !thousandsPattern.MatchString(s) {
			return math.NaN()
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// FormatCell renders a float back to a table cell, empty for missing
func FormatCell(v float64) string {
	if IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// IsMissing reports whether a value is the missing-value marker
func IsMissing(v float64) bool {
	return math.IsNaN(v)
}
