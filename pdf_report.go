package main

import (
	"fmt"
	"os"
	"time"

	"github.com/go-pdf/fpdf"
)

// GeneratePDFReport writes the ranking and per-outcome breakdown as a
// single-page printable PDF, with the solver result appended when the
// configured parameters solve cleanly
func GeneratePDFReport(table ScoreTable, config *Config, filename string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Greenlight: Policy Ranking", false)
	pdf.AddPage()

	// Title block
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(37, 99, 235)
	pdf.CellFormat(0, 10, "Greenlight: Policy Choice Optimizer", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	modeDesc := "PV(TNB) entered directly per outcome"
	if config.Mode() == ModeStream {
		modeDesc = fmt.Sprintf("Net-benefit streams discounted at r = %s", FormatRate(config.EffectiveDiscountRate()))
	}
	pdf.CellFormat(0, 5, fmt.Sprintf("%s  |  Generated %s", modeDesc, time.Now().Format("2006-01-02 15:04")), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	// Recommendation
	pdf.SetTextColor(30, 41, 59)
	if best := table.Recommended(); best != nil {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(240, 253, 244)
		pdf.CellFormat(0, 8, fmt.Sprintf("Recommended policy: %s  (PV(ETNB) = %s)", best.Policy, FormatNumber(best.PVETNB)),
			"1", 1, "L", true, 0, "")
		pdf.Ln(2)
	}
	for _, w := range table.Warnings {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(234, 88, 12)
		pdf.CellFormat(0, 6, "Warning: "+w, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	// Ranking table
	pdf.SetTextColor(30, 41, 59)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Ranking (higher PV(ETNB) is better)", "", 1, "L", false, 0, "")

	rankWidths := []float64{18, 40, 40, 30}
	rankHeaders := []string{"Rank", "Policy", "PV(ETNB)", "Sum Prob"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(241, 245, 249)
	for i, h := range rankHeaders {
		pdf.CellFormat(rankWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, s := range table.Scores {
		fill := s.Rank == 1 && !IsMissing(s.PVETNB)
		pdf.SetFillColor(240, 253, 244)
		pdf.CellFormat(rankWidths[0], 6, fmt.Sprintf("%d", s.Rank), "1", 0, "C", fill, 0, "")
		pdf.CellFormat(rankWidths[1], 6, s.Policy, "1", 0, "L", fill, 0, "")
		pdf.CellFormat(rankWidths[2], 6, FormatNumber(s.PVETNB), "1", 0, "R", fill, 0, "")
		pdf.CellFormat(rankWidths[3], 6, formatProbSum(s.ProbSum), "1", 0, "R", fill, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Per-outcome breakdown
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Detailed calculations (per outcome)", "", 1, "L", false, 0, "")

	detailWidths := []float64{30, 30, 25, 35, 40}
	detailHeaders := []string{"Policy", "Outcome", "Prob", "PV(TNB)", "Prob x PV(TNB)"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(241, 245, 249)
	for i, h := range detailHeaders {
		pdf.CellFormat(detailWidths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range SortRowsForDisplay(table.Rows) {
		pdf.CellFormat(detailWidths[0], 6, row.Policy, "1", 0, "L", false, 0, "")
		pdf.CellFormat(detailWidths[1], 6, row.Outcome, "1", 0, "L", false, 0, "")
		pdf.CellFormat(detailWidths[2], 6, formatProbSum(row.Prob), "1", 0, "R", false, 0, "")
		pdf.CellFormat(detailWidths[3], 6, FormatNumber(row.PVTNB), "1", 0, "R", false, 0, "")
		pdf.CellFormat(detailWidths[4], 6, FormatNumber(row.WeightedPVTNB), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(4)

	// Resource solver block (only when the configured parameters solve)
	if sol, err := SolveTwoPeriod(config.Resource); err == nil {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Depletable resource allocation (2-period)", "", 1, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		p := config.Resource
		pdf.CellFormat(0, 5, fmt.Sprintf("P = %.4g - %.4g q,  MC = %.4g,  r = %s,  Q = %.4g",
			p.A, p.B, p.MC, FormatRate(p.Rate), p.Reserves), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("q1* = %s   q2* = %s   P1* = %s   P2* = %s",
			FormatNumber4(sol.Q1), FormatNumber4(sol.Q2), FormatNumber4(sol.P1), FormatNumber4(sol.P2)), "", 1, "L", false, 0, "")
		pdf.CellFormat(0, 5, fmt.Sprintf("Check: P1-MC = %s and (P2-MC)/(1+r) = %s",
			FormatNumber4(sol.CheckLHS), FormatNumber4(sol.CheckRHS)), "", 1, "L", false, 0, "")
	}

	// Formula footer
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, "PV(Bn) = Bn/(1+r)^n   |   PV(stream) = Sum Bi/(1+r)^i   |   PV(ETNBj) = Sum Pij x PV(TNBij)", "", 1, "L", false, 0, "")

	return pdf.OutputFileAndClose(filename)
}

// writeTempPDF renders the report into the OS temp directory and returns
// the file path. The caller is responsible for removing the file.
func writeTempPDF(table ScoreTable, config *Config) (string, error) {
	f, err := os.CreateTemp("", "greenlight_ranking_*.pdf")
	if err != nil {
		return "", err
	}
	path := f.Name()
	f.Close()

	if err := GeneratePDFReport(table, config, path); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}
