package main

import (
	"fmt"
	"os"
	"time"
)

// GenerateHTMLReport writes a standalone HTML report of the ranking,
// the per-outcome breakdown, and any probability warnings
func GenerateHTMLReport(table ScoreTable, config *Config, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	modeDesc := "PV(TNB) entered directly per outcome"
	if config.Mode() == ModeStream {
		modeDesc = fmt.Sprintf("Net-benefit streams B0..B%d discounted at r = %s",
			NumPeriods-1, FormatRate(config.EffectiveDiscountRate()))
	}

	// Write HTML header
	fmt.Fprintf(f, `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Greenlight: Policy Ranking</title>
    <style>
        :root {
            --primary: #2563eb;
            --success: #16a34a;
            --warning: #ea580c;
            --danger: #dc2626;
            --bg: #f8fafc;
            --card-bg: #ffffff;
            --text: #1e293b;
            --text-muted: #64748b;
            --border: #e2e8f0;
        }
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            background: var(--bg);
            color: var(--text);
            line-height: 1.6;
            padding: 2rem;
        }
        .container { max-width: 1100px; margin: 0 auto; }
        h1 {
            font-size: 1.75rem;
            margin-bottom: 0.5rem;
            color: var(--primary);
        }
        h2 {
            font-size: 1.25rem;
            margin: 1.5rem 0 1rem;
            padding-bottom: 0.5rem;
            border-bottom: 2px solid var(--border);
        }
        .subtitle { color: var(--text-muted); margin-bottom: 1.5rem; }
        .card {
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
            padding: 1.5rem;
            margin-bottom: 1.5rem;
        }
        table {
            width: 100%%;
            border-collapse: collapse;
            font-size: 0.9rem;
        }
        th, td {
            text-align: right;
            padding: 0.5rem 0.75rem;
            border-bottom: 1px solid var(--border);
        }
        th { color: var(--text-muted); font-weight: 600; }
        th:first-child, td:first-child,
        th:nth-child(2), td:nth-child(2) { text-align: left; }
        tr.best { background: #f0fdf4; font-weight: 600; }
        .banner {
            background: #f0fdf4;
            border: 1px solid var(--success);
            color: var(--success);
            border-radius: 8px;
            padding: 0.75rem 1rem;
            margin-bottom: 1rem;
            font-weight: 600;
        }
        .warning {
            background: #fff7ed;
            border: 1px solid var(--warning);
            color: var(--warning);
            border-radius: 8px;
            padding: 0.75rem 1rem;
            margin-bottom: 0.5rem;
        }
        .footer { color: var(--text-muted); font-size: 0.8rem; margin-top: 2rem; }
    </style>
</head>
<body>
<div class="container">
    <h1>Greenlight: Policy Ranking</h1>
    <p class="subtitle">%s &middot; Generated %s</p>
`, modeDesc, time.Now().Format("2006-01-02 15:04"))

	// Recommendation banner
	if best := table.Recommended(); best != nil {
		fmt.Fprintf(f, `    <div class="banner">Recommended policy: %s (PV(ETNB) = %s)</div>
`, best.Policy, FormatNumber(best.PVETNB))
	}
	for _, w := range table.Warnings {
		fmt.Fprintf(f, `    <div class="warning">%s</div>
`, w)
	}

	// Ranking table
	fmt.Fprint(f, `    <div class="card">
    <h2>Ranking (higher PV(ETNB) is better)</h2>
    <table>
        <tr><th>Rank</th><th>Policy</th><th>PV(ETNB)</th><th>&Sigma; Prob</th></tr>
`)
	for _, s := range table.Scores {
		cls := ""
		if s.Rank == 1 && !IsMissing(s.PVETNB) {
			cls = ` class="best"`
		}
		fmt.Fprintf(f, `        <tr%s><td>%d</td><td>%s</td><td>%s</td><td>%s</td></tr>
`, cls, s.Rank, s.Policy, FormatNumber(s.PVETNB), formatProbSum(s.ProbSum))
	}
	fmt.Fprint(f, `    </table>
    </div>
`)

	// Per-outcome breakdown
	fmt.Fprint(f, `    <div class="card">
    <h2>Detailed calculations (per outcome)</h2>
    <table>
        <tr><th>Policy</th><th>Outcome</th><th>Prob</th><th>PV(TNB)</th><th>Prob &times; PV(TNB)</th></tr>
`)
	for _, row := range SortRowsForDisplay(table.Rows) {
		fmt.Fprintf(f, `        <tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>
`, row.Policy, row.Outcome, formatProbSum(row.Prob), FormatNumber(row.PVTNB), FormatNumber(row.WeightedPVTNB))
	}
	fmt.Fprint(f, `    </table>
    </div>
`)

	fmt.Fprint(f, `    <p class="footer">
        PV(B<sub>n</sub>) = B<sub>n</sub>/(1+r)<sup>n</sup> &middot;
        PV(stream) = &Sigma; B<sub>i</sub>/(1+r)<sup>i</sup> &middot;
        PV(ETNB<sub>j</sub>) = &Sigma; P<sub>ij</sub> &times; PV(TNB<sub>ij</sub>)
    </p>
</div>
</body>
</html>
`)

	return nil
}
