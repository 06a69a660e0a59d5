package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteScoresCSV writes the ranking followed by the per-outcome
// breakdown as CSV. Missing values are written as empty cells.
func WriteScoresCSV(w io.Writer, table ScoreTable) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Rank", "Policy", "PV_ETNB", "Prob_Sum"}); err != nil {
		return err
	}
	for _, s := range table.Scores {
		record := []string{
			fmt.Sprintf("%d", s.Rank),
			s.Policy,
			FormatCell(s.PVETNB),
			FormatCell(s.ProbSum),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	// Blank row between the two sections
	if err := cw.Write([]string{}); err != nil {
		return err
	}

	if err := cw.Write([]string{"Policy", "Outcome", "Prob", "PV_TNB", "Weighted_PV_TNB"}); err != nil {
		return err
	}
	for _, row := range SortRowsForDisplay(table.Rows) {
		record := []string{
			row.Policy,
			row.Outcome,
			FormatCell(row.Prob),
			FormatCell(row.PVTNB),
			FormatCell(row.WeightedPVTNB),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ExportScoresCSV writes the ranking CSV to a file
func ExportScoresCSV(table ScoreTable, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return WriteScoresCSV(f, table)
}
