package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"strings"
	"time"
)

// WebServer holds the HTTP server configuration
type WebServer struct {
	config *Config
	addr   string
}

// NewWebServer creates a new web server instance
func NewWebServer(config *Config, addr string) *WebServer {
	return &WebServer{
		config: config,
		addr:   addr,
	}
}

// APIRankRequest carries the edited table and ranking settings.
// Numeric cells arrive as raw strings so coercion to missing values
// happens server-side, exactly as in console mode.
type APIRankRequest struct {
	Mode         string           `json:"mode"` // "direct" or "stream"
	DiscountRate float64          `json:"discount_rate"`
	RateSource   string           `json:"rate_source,omitempty"`
	Table        []TableRowConfig `json:"table"`
}

// APIScore is one ranked policy. Values are pre-formatted strings,
// empty when missing, because JSON cannot carry NaN.
type APIScore struct {
	Rank    int    `json:"rank"`
	Policy  string `json:"policy"`
	PVETNB  string `json:"pv_etnb"`
	ProbSum string `json:"prob_sum"`
}

// APIOutcomeRow is one per-outcome breakdown line
type APIOutcomeRow struct {
	Policy   string `json:"policy"`
	Outcome  string `json:"outcome"`
	Prob     string `json:"prob"`
	PVTNB    string `json:"pv_tnb"`
	Weighted string `json:"weighted_pv_tnb"`
}

// APIRankResponse is the ranking result
type APIRankResponse struct {
	Success     bool            `json:"success"`
	Error       string          `json:"error,omitempty"`
	Scores      []APIScore      `json:"scores,omitempty"`
	Rows        []APIOutcomeRow `json:"rows,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
	Recommended *APIScore       `json:"recommended,omitempty"`
	RateUsed    float64         `json:"rate_used"`
}

// APIPVRequest is a standalone PV calculation
type APIPVRequest struct {
	DiscountRate float64  `json:"discount_rate"`
	Benefits     []string `json:"benefits"`
}

// APIPVResponse carries the PV and the per-period discount factors
type APIPVResponse struct {
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
	PV      string    `json:"pv"`
	Factors []float64 `json:"factors,omitempty"`
}

// APIResourceResponse is the solver result or its error
type APIResourceResponse struct {
	Success  bool   `json:"success"`
	Error    string `json:"error,omitempty"`
	Q1       string `json:"q1,omitempty"`
	Q2       string `json:"q2,omitempty"`
	P1       string `json:"p1,omitempty"`
	P2       string `json:"p2,omitempty"`
	MNB1     string `json:"mnb1,omitempty"`
	MNB2     string `json:"mnb2,omitempty"`
	CheckLHS string `json:"check_lhs,omitempty"`
	CheckRHS string `json:"check_rhs,omitempty"`
}

// APISensitivityRequest sweeps the ranking across discount rates.
// Mode is the client's active input mode: a direct-mode sweep is
// rejected, since direct PV entries do not depend on the rate.
type APISensitivityRequest struct {
	Mode     string           `json:"mode"`
	Table    []TableRowConfig `json:"table"`
	RateMin  float64          `json:"rate_min"`
	RateMax  float64          `json:"rate_max"`
	StepSize float64          `json:"step_size"`
}

// APISensitivityPoint is one rate's winner in the sweep
type APISensitivityPoint struct {
	Rate       float64 `json:"rate"`
	BestPolicy string  `json:"best_policy"`
	BestPVETNB string  `json:"best_pv_etnb"`
}

// APISensitivityResponse is the sweep result
type APISensitivityResponse struct {
	Success   bool                  `json:"success"`
	Error     string                `json:"error,omitempty"`
	Points    []APISensitivityPoint `json:"points,omitempty"`
	FlipRates []float64             `json:"flip_rates,omitempty"`
}

func (ws *WebServer) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/", ws.handleIndex)
	mux.HandleFunc("/api/config", ws.handleGetConfig)
	mux.HandleFunc("/api/presets", ws.handleGetPresets)
	mux.HandleFunc("/api/rank", ws.handleRank)
	mux.HandleFunc("/api/pv", ws.handlePV)
	mux.HandleFunc("/api/resource", ws.handleResource)
	mux.HandleFunc("/api/sensitivity", ws.handleSensitivity)
	mux.HandleFunc("/api/export-csv", ws.handleExportCSV)
	mux.HandleFunc("/api/export-pdf", ws.handleExportPDF)
	return mux
}

// Start starts the web server
func (ws *WebServer) Start() error {
	mux := ws.routes()

	// Listen on the address (use :0 for auto-assign)
	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return err
	}

	// Get the actual address (with assigned port)
	actualAddr := listener.Addr().String()
	url := fmt.Sprintf("http://%s", actualAddr)

	// If listening on all interfaces, use localhost for the URL
	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}

	log.Printf("Starting web server on %s", actualAddr)
	log.Printf("Opening %s in your browser...", url)

	// Open browser
	go openBrowser(url)

	return http.Serve(listener, mux)
}

// StartForEmbedded starts the server and returns the URL and a cleanup function.
// Unlike Start(), this does NOT open the browser and does NOT block.
// The caller is responsible for stopping the server via the cleanup function.
func (ws *WebServer) StartForEmbedded() (url string, cleanup func(), err error) {
	mux := ws.routes()

	listener, err := net.Listen("tcp", ws.addr)
	if err != nil {
		return "", nil, err
	}

	actualAddr := listener.Addr().String()
	url = fmt.Sprintf("http://%s", actualAddr)
	if strings.HasPrefix(actualAddr, ":") || strings.HasPrefix(actualAddr, "0.0.0.0:") {
		port := actualAddr[strings.LastIndex(actualAddr, ":")+1:]
		url = fmt.Sprintf("http://localhost:%s", port)
	}

	log.Printf("Starting embedded web server on %s", actualAddr)

	// Create server with proper shutdown support
	server := &http.Server{Handler: mux}

	go func() {
		if err := server.Serve(listener); err != http.ErrServerClosed {
			log.Printf("Server error: %v", err)
		}
	}()

	cleanup = func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}

	return url, cleanup, nil
}

// handleIndex serves the main web UI
func (ws *WebServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, webUIHTML)
}

// handleGetConfig returns the current configuration
func (ws *WebServer) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if ws.config == nil {
		defaultConfig, err := LoadDefaultConfig()
		if err != nil {
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		}
		json.NewEncoder(w).Encode(defaultConfig)
		return
	}

	json.NewEncoder(w).Encode(ws.config)
}

// handleGetPresets returns the named discount-rate presets
func (ws *WebServer) handleGetPresets(w http.ResponseWriter, r *http.Request) {
	type preset struct {
		ID          string  `json:"id"`
		Name        string  `json:"name"`
		Rate        float64 `json:"rate"`
		Description string  `json:"description"`
	}
	out := make([]preset, len(RatePresets))
	for i, p := range RatePresets {
		out[i] = preset{ID: p.ID, Name: p.Name, Rate: p.Rate, Description: p.Description}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(out)
}

// rankFromRequest builds and scores the table from an API request
func (ws *WebServer) rankFromRequest(req *APIRankRequest) (ScoreTable, float64) {
	mode := ModeDirect
	if req.Mode == string(ModeStream) {
		mode = ModeStream
	}

	rate := req.DiscountRate
	if req.RateSource != "" && req.RateSource != "custom" {
		if preset := GetRatePresetByID(req.RateSource); preset != nil {
			rate = preset.Rate
		}
	}

	rows := make([]OutcomeRow, len(req.Table))
	for i := range req.Table {
		rows[i] = req.Table[i].Row()
	}

	return ComputePolicyScores(rows, mode, rate), rate
}

// persistRequest folds the edited table back into the session config
// and saves it, so edits survive a restart. Failures are logged, not
// fatal: the recompute still answers.
func (ws *WebServer) persistRequest(req *APIRankRequest) {
	if ws.config == nil {
		if def, err := LoadDefaultConfig(); err == nil {
			ws.config = def
		} else {
			return
		}
	}
	ws.config.Optimizer.InputMode = req.Mode
	ws.config.Optimizer.DiscountRate = req.DiscountRate
	ws.config.Optimizer.RateSource = req.RateSource
	ws.config.Optimizer.Table = req.Table

	if err := SaveConfig(ws.config, "config.yaml"); err != nil {
		log.Printf("Warning: failed to save config: %v", err)
	}
}

// handleRank recomputes the policy ranking from the edited table
func (ws *WebServer) handleRank(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	ws.persistRequest(&req)
	table, rate := ws.rankFromRequest(&req)

	response := APIRankResponse{
		Success:  true,
		Warnings: table.Warnings,
		RateUsed: rate,
	}
	for _, s := range table.Scores {
		response.Scores = append(response.Scores, apiScore(s))
	}
	for _, row := range SortRowsForDisplay(table.Rows) {
		response.Rows = append(response.Rows, APIOutcomeRow{
			Policy:   row.Policy,
			Outcome:  row.Outcome,
			Prob:     formatProbSum(row.Prob),
			PVTNB:    FormatNumber(row.PVTNB),
			Weighted: FormatNumber(row.WeightedPVTNB),
		})
	}
	if best := table.Recommended(); best != nil {
		s := apiScore(*best)
		response.Recommended = &s
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

func apiScore(s PolicyScore) APIScore {
	return APIScore{
		Rank:    s.Rank,
		Policy:  s.Policy,
		PVETNB:  FormatNumber(s.PVETNB),
		ProbSum: formatProbSum(s.ProbSum),
	}
}

// handlePV runs the standalone PV calculator
func (ws *WebServer) handlePV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIPVRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	benefits := make([]float64, len(req.Benefits))
	factors := make([]float64, len(req.Benefits))
	for i, cell := range req.Benefits {
		benefits[i] = ParseCell(cell)
		factors[i] = PVFactor(req.DiscountRate, i)
	}

	response := APIPVResponse{
		Success: true,
		PV:      FormatNumber(PVOfStream(benefits, req.DiscountRate)),
		Factors: factors,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// handleResource runs the two-period depletable resource solver
func (ws *WebServer) handleResource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var params ResourceParams
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")

	sol, err := SolveTwoPeriod(params)
	if err != nil {
		json.NewEncoder(w).Encode(APIResourceResponse{Success: false, Error: err.Error()})
		return
	}

	json.NewEncoder(w).Encode(APIResourceResponse{
		Success:  true,
		Q1:       FormatNumber4(sol.Q1),
		Q2:       FormatNumber4(sol.Q2),
		P1:       FormatNumber4(sol.P1),
		P2:       FormatNumber4(sol.P2),
		MNB1:     FormatNumber4(sol.MNB1),
		MNB2:     FormatNumber4(sol.MNB2),
		CheckLHS: FormatNumber4(sol.CheckLHS),
		CheckRHS: FormatNumber4(sol.CheckRHS),
	})
}

// handleSensitivity sweeps the ranking across discount rates
func (ws *WebServer) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APISensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	// Older clients did not send a mode; those requests carried streams
	mode := req.Mode
	if mode == "" {
		mode = string(ModeStream)
	}

	config := &Config{
		Optimizer: OptimizerConfig{
			InputMode: mode,
			Table:     req.Table,
		},
		Sensitivity: SensitivityConfig{
			RateMin:  req.RateMin,
			RateMax:  req.RateMax,
			StepSize: req.StepSize,
		},
	}

	w.Header().Set("Content-Type", "application/json")

	analysis, err := RunSensitivityAnalysis(config)
	if err != nil {
		json.NewEncoder(w).Encode(APISensitivityResponse{Success: false, Error: err.Error()})
		return
	}

	response := APISensitivityResponse{Success: true, FlipRates: analysis.FlipRates}
	for _, p := range analysis.Points {
		response.Points = append(response.Points, APISensitivityPoint{
			Rate:       p.Rate,
			BestPolicy: p.BestPolicy,
			BestPVETNB: FormatNumber(p.BestPVETNB),
		})
	}
	json.NewEncoder(w).Encode(response)
}

// handleExportCSV streams the ranking as a CSV download
func (ws *WebServer) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	table, _ := ws.rankFromRequest(&req)

	filename := fmt.Sprintf("greenlight_ranking_%s.csv", time.Now().Format("2006-01-02_1504"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	if err := WriteScoresCSV(w, table); err != nil {
		log.Printf("CSV export error: %v", err)
	}
}

// handleExportPDF streams the ranking report as a PDF download
func (ws *WebServer) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req APIRankRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendJSONError(w, "Invalid request body: "+err.Error())
		return
	}

	table, _ := ws.rankFromRequest(&req)

	config := ws.config
	if config == nil {
		var err error
		if config, err = LoadDefaultConfig(); err != nil {
			sendJSONError(w, "PDF generation failed: "+err.Error())
			return
		}
	}
	config.Optimizer.InputMode = req.Mode
	config.Optimizer.DiscountRate = req.DiscountRate
	config.Optimizer.RateSource = req.RateSource

	tmp, err := writeTempPDF(table, config)
	if err != nil {
		sendJSONError(w, "PDF generation failed: "+err.Error())
		return
	}
	defer os.Remove(tmp)

	filename := fmt.Sprintf("greenlight_ranking_%s.pdf", time.Now().Format("2006-01-02_1504"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	http.ServeFile(w, r, tmp)
}

// sendJSONError sends a JSON error response
func sendJSONError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   message,
	})
}

// webUIHTML is the single-page UI served at /
const webUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Greenlight: Policy Choice Optimizer</title>
    <link rel="icon" type="image/svg+xml" href="data:image/svg+xml,%3Csvg xmlns='http://www.w3.org/2000/svg' viewBox='0 0 64 64'%3E%3Ccircle cx='32' cy='32' r='28' fill='%2316a34a'/%3E%3Cpath d='M20 33 l8 8 l16 -18' stroke='white' stroke-width='6' fill='none' stroke-linecap='round' stroke-linejoin='round'/%3E%3C/svg%3E">
    <style>
        :root {
            --primary: #2563eb;
            --primary-dark: #1d4ed8;
            --success: #16a34a;
            --warning: #ea580c;
            --danger: #dc2626;
            --bg: #f1f5f9;
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
        }
        .header {
            background: linear-gradient(135deg, var(--primary) 0%, var(--primary-dark) 100%);
            color: white;
            padding: 1.25rem 2rem;
            box-shadow: 0 2px 4px rgba(0,0,0,0.1);
        }
        .header h1 { font-size: 1.4rem; font-weight: 600; }
        .header p { opacity: 0.9; font-size: 0.85rem; }
        .tabs {
            display: flex;
            gap: 0.25rem;
            background: var(--card-bg);
            border-bottom: 1px solid var(--border);
            padding: 0 2rem;
        }
        .tab {
            padding: 0.75rem 1.25rem;
            border: none;
            background: none;
            font-size: 0.85rem;
            font-weight: 500;
            color: var(--text-muted);
            cursor: pointer;
            border-bottom: 2px solid transparent;
        }
        .tab.active { color: var(--primary); border-bottom-color: var(--primary); }
        .tab:hover { color: var(--primary); }
        .panel { display: none; padding: 1.5rem 2rem; max-width: 1300px; margin: 0 auto; }
        .panel.active { display: block; }
        .card {
            background: var(--card-bg);
            border-radius: 8px;
            box-shadow: 0 1px 3px rgba(0,0,0,0.1);
            padding: 1rem;
            margin-bottom: 1rem;
        }
        .card h2 {
            font-size: 0.95rem;
            font-weight: 600;
            margin-bottom: 0.75rem;
            color: var(--primary);
        }
        .columns { display: grid; grid-template-columns: 3fr 2fr; gap: 1rem; align-items: start; }
        @media (max-width: 1024px) { .columns { grid-template-columns: 1fr; } }
        .form-group { margin-bottom: 0.5rem; }
        .form-group label {
            display: block;
            font-size: 0.7rem;
            font-weight: 500;
            color: var(--text-muted);
            margin-bottom: 0.15rem;
            text-transform: uppercase;
            letter-spacing: 0.3px;
        }
        .form-group input, .form-group select {
            width: 100%;
            padding: 0.4rem 0.5rem;
            border: 1px solid var(--border);
            border-radius: 4px;
            font-size: 0.85rem;
        }
        .form-group input:focus, .form-group select:focus {
            outline: none;
            border-color: var(--primary);
            box-shadow: 0 0 0 3px rgba(37, 99, 235, 0.1);
        }
        .form-row { display: grid; grid-template-columns: repeat(2, 1fr); gap: 0.5rem; }
        .form-row-4 { display: grid; grid-template-columns: repeat(4, 1fr); gap: 0.5rem; }
        .form-hint { font-size: 0.7rem; color: var(--text-muted); margin-top: 0.2rem; }
        .radio-row { display: flex; gap: 1.25rem; margin-bottom: 0.6rem; font-size: 0.85rem; }
        .radio-row label { display: flex; align-items: center; gap: 0.3rem; cursor: pointer; }
        .slider-row { display: flex; align-items: center; gap: 0.75rem; margin-bottom: 0.6rem; }
        .slider-row input[type=range] { flex: 1; }
        .slider-value { min-width: 3.5rem; font-weight: 600; font-size: 0.9rem; color: var(--primary); }
        table { width: 100%; border-collapse: collapse; font-size: 0.82rem; }
        th, td { padding: 0.35rem 0.45rem; border-bottom: 1px solid var(--border); text-align: right; }
        th { color: var(--text-muted); font-weight: 600; white-space: nowrap; }
        th:first-child, td:first-child, th:nth-child(2), td:nth-child(2) { text-align: left; }
        td input {
            width: 5.2rem;
            padding: 0.25rem 0.35rem;
            border: 1px solid var(--border);
            border-radius: 4px;
            font-size: 0.82rem;
            text-align: right;
        }
        td input.name-cell { width: 4rem; text-align: left; }
        td input.bad { border-color: var(--danger); background: #fef2f2; }
        tr.best td { background: #f0fdf4; font-weight: 600; }
        .btn {
            display: inline-flex;
            align-items: center;
            gap: 0.3rem;
            padding: 0.45rem 0.9rem;
            font-size: 0.8rem;
            font-weight: 500;
            border: none;
            border-radius: 6px;
            cursor: pointer;
        }
        .btn-primary { background: var(--primary); color: white; }
        .btn-primary:hover { background: var(--primary-dark); }
        .btn:disabled { opacity: 0.5; cursor: not-allowed; }
        .btn-ghost { background: none; color: var(--text-muted); border: 1px solid var(--border); }
        .btn-ghost:hover { color: var(--primary); border-color: var(--primary); }
        .btn-small { padding: 0.2rem 0.5rem; font-size: 0.75rem; }
        .toolbar { display: flex; gap: 0.5rem; margin: 0.6rem 0; flex-wrap: wrap; }
        .banner {
            background: #f0fdf4;
            border: 1px solid var(--success);
            color: var(--success);
            border-radius: 8px;
            padding: 0.6rem 0.9rem;
            margin-bottom: 0.75rem;
            font-weight: 600;
            font-size: 0.9rem;
        }
        .warning {
            background: #fff7ed;
            border: 1px solid var(--warning);
            color: var(--warning);
            border-radius: 8px;
            padding: 0.5rem 0.9rem;
            margin-bottom: 0.5rem;
            font-size: 0.82rem;
        }
        .error {
            background: #fef2f2;
            border: 1px solid var(--danger);
            color: var(--danger);
            border-radius: 8px;
            padding: 0.6rem 0.9rem;
            margin-bottom: 0.75rem;
            font-size: 0.85rem;
        }
        .metric {
            display: inline-block;
            background: var(--bg);
            border-radius: 8px;
            padding: 0.6rem 1.1rem;
            margin: 0.25rem 0.5rem 0.25rem 0;
        }
        .metric .label { font-size: 0.7rem; color: var(--text-muted); text-transform: uppercase; }
        .metric .value { font-size: 1.25rem; font-weight: 700; color: var(--primary); }
        .caption { font-size: 0.75rem; color: var(--text-muted); margin-top: 0.5rem; }
        .formulas {
            font-size: 0.78rem;
            color: var(--text-muted);
            background: var(--bg);
            border-radius: 6px;
            padding: 0.5rem 0.75rem;
            margin-bottom: 0.6rem;
        }
    </style>
</head>
<body>
    <div class="header">
        <h1>Greenlight: Policy Choice Optimizer</h1>
        <p>Ranks policy options by PV(Expected Total Net Benefits), using Econ 351 discounting + probabilities.</p>
    </div>

    <div class="tabs">
        <button class="tab active" data-panel="optimizer">Policy Optimizer</button>
        <button class="tab" data-panel="pvcalc">PV Calculator</button>
        <button class="tab" data-panel="resource">Bonus: Depletable Resource (2-period)</button>
    </div>

    <!-- Policy Optimizer -->
    <div class="panel active" id="panel-optimizer">
        <div class="card">
            <h2>1) Policy Optimizer (PV(ETNB) Ranking)</h2>
            <div class="radio-row">
                <label><input type="radio" name="mode" value="direct" checked> Enter PV(TNB) directly</label>
                <label><input type="radio" name="mode" value="stream"> Enter net-benefit stream (B0..B3) and compute PV using r</label>
            </div>
            <div class="slider-row" id="rate-row">
                <label style="font-size:0.8rem; color:var(--text-muted);">Discount rate (r)</label>
                <input type="range" id="rate" min="0" max="0.30" step="0.005" value="0.07">
                <span class="slider-value" id="rate-value">7.0%</span>
                <select id="rate-source" style="max-width:15rem; padding:0.3rem; border:1px solid var(--border); border-radius:4px; font-size:0.8rem;">
                    <option value="custom">Custom rate</option>
                </select>
            </div>
            <div class="formulas">
                PV(B<sub>n</sub>) = B<sub>n</sub>/(1+r)<sup>n</sup> &nbsp;&middot;&nbsp;
                PV(stream) = &Sigma; B<sub>i</sub>/(1+r)<sup>i</sup> &nbsp;&middot;&nbsp;
                PV(ETNB<sub>j</sub>) = &Sigma; P<sub>ij</sub> &times; PV(TNB<sub>ij</sub>)
            </div>
            <div class="form-hint">Tip: for each policy, make Prob values sum to ~1 across its outcomes. Blank or non-numeric cells become missing values and blank out that policy's score.</div>
            <table id="input-table">
                <thead><tr id="input-head"></tr></thead>
                <tbody id="input-body"></tbody>
            </table>
            <div class="toolbar">
                <button class="btn btn-ghost btn-small" id="add-row">+ Add row</button>
                <button class="btn btn-ghost btn-small" id="export-csv">Export CSV</button>
                <button class="btn btn-ghost btn-small" id="export-pdf">Export PDF</button>
                <button class="btn btn-primary btn-small" id="run-sensitivity" title="Stream mode only">Rate sensitivity</button>
            </div>
        </div>

        <div class="columns">
            <div class="card">
                <h2>Ranking (higher PV(ETNB) is better)</h2>
                <div id="recommend"></div>
                <div id="rank-warnings"></div>
                <table>
                    <thead><tr><th>Rank</th><th>Policy</th><th>PV(ETNB)</th><th>&Sigma; Prob</th></tr></thead>
                    <tbody id="rank-body"></tbody>
                </table>
            </div>
            <div class="card">
                <h2>Detailed calculations (per outcome)</h2>
                <table>
                    <thead><tr><th>Policy</th><th>Outcome</th><th>Prob</th><th>PV(TNB)</th><th>Prob &times; PV(TNB)</th></tr></thead>
                    <tbody id="detail-body"></tbody>
                </table>
            </div>
        </div>

        <div class="card" id="sensitivity-card" style="display:none;">
            <h2>Discount-rate sensitivity</h2>
            <div id="sensitivity-result"></div>
        </div>
    </div>

    <!-- PV Calculator -->
    <div class="panel" id="panel-pvcalc">
        <div class="card">
            <h2>2) PV Calculator (Quick sanity-check)</h2>
            <div class="slider-row">
                <label style="font-size:0.8rem; color:var(--text-muted);">Discount rate (r)</label>
                <input type="range" id="pv-rate" min="0" max="0.30" step="0.005" value="0.07">
                <span class="slider-value" id="pv-rate-value">7.0%</span>
            </div>
            <div class="form-row-4">
                <div class="form-group"><label>B0</label><input id="pv-b0" value="0"></div>
                <div class="form-group"><label>B1</label><input id="pv-b1" value="0"></div>
                <div class="form-group"><label>B2</label><input id="pv-b2" value="0"></div>
                <div class="form-group"><label>B3</label><input id="pv-b3" value="0"></div>
            </div>
            <div class="metric"><div class="label">PV(B0..B3)</div><div class="value" id="pv-result">0.00</div></div>
            <p class="caption">Uses PV(stream) = &Sigma; B<sub>i</sub>/(1+r)<sup>i</sup>; period 0 is undiscounted.</p>
        </div>
    </div>

    <!-- Depletable Resource -->
    <div class="panel" id="panel-resource">
        <div class="card">
            <h2>Bonus) Depletable Resource Allocation (2-period dynamic efficiency)</h2>
            <p class="caption" style="margin-bottom:0.75rem;">Solves q1*, q2* using P1&minus;MC = (P2&minus;MC)/(1+r) with Q = q1+q2.</p>
            <div class="form-row-4">
                <div class="form-group"><label>a (from P = a &minus; bq)</label><input id="res-a" value="8"></div>
                <div class="form-group"><label>b</label><input id="res-b" value="0.4"></div>
                <div class="form-group"><label>MC (constant)</label><input id="res-mc" value="2"></div>
                <div class="form-group"><label>r</label><input id="res-r" value="0.10"></div>
            </div>
            <div class="form-row">
                <div class="form-group"><label>Total reserves Q</label><input id="res-q" value="20"></div>
            </div>
            <div id="resource-error"></div>
            <div id="resource-result"></div>
        </div>
    </div>

<script>
(function() {
    'use strict';

    var state = {
        mode: 'direct',
        rate: 0.07,
        rateSource: 'custom',
        table: []
    };
    var debounceTimer = null;

    // --- tabs ---
    document.querySelectorAll('.tab').forEach(function(tab) {
        tab.addEventListener('click', function() {
            document.querySelectorAll('.tab').forEach(function(t) { t.classList.remove('active'); });
            document.querySelectorAll('.panel').forEach(function(p) { p.classList.remove('active'); });
            tab.classList.add('active');
            document.getElementById('panel-' + tab.dataset.panel).classList.add('active');
        });
    });

    // --- helpers ---
    function post(url, body) {
        return fetch(url, {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify(body)
        }).then(function(r) { return r.json(); });
    }
    function fmtPct(r) { return (r * 100).toFixed(1) + '%'; }
    function esc(s) {
        var div = document.createElement('div');
        div.textContent = s == null ? '' : String(s);
        return div.innerHTML;
    }
    function isNumeric(s) {
        if (s === null || String(s).trim() === '') return false;
        return !isNaN(parseFloat(String(s).replace(/,/g, ''))) && isFinite(String(s).replace(/,/g, ''));
    }

    // --- input table rendering ---
    var directCols = [
        {key: 'policy', label: 'Policy', name: true},
        {key: 'outcome', label: 'Outcome', name: true},
        {key: 'prob', label: 'Prob'},
        {key: 'pv_tnb', label: 'PV_TNB'}
    ];
    var streamCols = [
        {key: 'policy', label: 'Policy', name: true},
        {key: 'outcome', label: 'Outcome', name: true},
        {key: 'prob', label: 'Prob'},
        {key: 'b0', label: 'B0'}, {key: 'b1', label: 'B1'},
        {key: 'b2', label: 'B2'}, {key: 'b3', label: 'B3'}
    ];

    function activeCols() { return state.mode === 'stream' ? streamCols : directCols; }

    function renderInputTable() {
        var cols = activeCols();
        var head = document.getElementById('input-head');
        head.innerHTML = cols.map(function(c) { return '<th>' + c.label + '</th>'; }).join('') + '<th></th>';

        var body = document.getElementById('input-body');
        body.innerHTML = '';
        state.table.forEach(function(row, idx) {
            var tr = document.createElement('tr');
            cols.forEach(function(c) {
                var td = document.createElement('td');
                var input = document.createElement('input');
                input.value = row[c.key] || '';
                if (c.name) {
                    input.className = 'name-cell';
                } else if (input.value !== '' && !isNumeric(input.value)) {
                    input.className = 'bad';
                }
                input.addEventListener('input', function() {
                    row[c.key] = input.value;
                    if (!c.name) {
                        input.classList.toggle('bad', input.value !== '' && !isNumeric(input.value));
                    }
                    scheduleRecompute();
                });
                td.appendChild(input);
                tr.appendChild(td);
            });
            var tdDel = document.createElement('td');
            var del = document.createElement('button');
            del.className = 'btn btn-ghost btn-small';
            del.textContent = '×';
            del.title = 'Remove row';
            del.addEventListener('click', function() {
                state.table.splice(idx, 1);
                renderInputTable();
                scheduleRecompute();
            });
            tdDel.appendChild(del);
            tr.appendChild(tdDel);
            body.appendChild(tr);
        });
    }

    document.getElementById('add-row').addEventListener('click', function() {
        var last = state.table[state.table.length - 1] || {};
        state.table.push({
            policy: last.policy || 'A', outcome: '', prob: '0',
            pv_tnb: '0', b0: '0', b1: '0', b2: '0', b3: '0'
        });
        renderInputTable();
        scheduleRecompute();
    });

    // --- mode + rate controls ---
    function updateSensitivityButton() {
        var btn = document.getElementById('run-sensitivity');
        btn.disabled = state.mode !== 'stream';
        btn.title = btn.disabled ?
            'Switch to stream mode first: direct PV entries do not depend on r' :
            'Re-rank across discount rates';
    }

    document.querySelectorAll('input[name=mode]').forEach(function(radio) {
        radio.addEventListener('change', function() {
            state.mode = radio.value;
            updateSensitivityButton();
            renderInputTable();
            recompute();
        });
    });

    var rateSlider = document.getElementById('rate');
    var rateSource = document.getElementById('rate-source');
    rateSlider.addEventListener('input', function() {
        state.rate = parseFloat(rateSlider.value);
        state.rateSource = 'custom';
        rateSource.value = 'custom';
        document.getElementById('rate-value').textContent = fmtPct(state.rate);
        scheduleRecompute();
    });
    rateSource.addEventListener('change', function() {
        state.rateSource = rateSource.value;
        var opt = rateSource.selectedOptions[0];
        if (opt && opt.dataset.rate) {
            state.rate = parseFloat(opt.dataset.rate);
            rateSlider.value = state.rate;
            document.getElementById('rate-value').textContent = fmtPct(state.rate);
        }
        scheduleRecompute();
    });

    // --- ranking ---
    function scheduleRecompute() {
        clearTimeout(debounceTimer);
        debounceTimer = setTimeout(recompute, 250);
    }

    function rankRequest() {
        return {
            mode: state.mode,
            discount_rate: state.rate,
            rate_source: state.rateSource,
            table: state.table
        };
    }

    function recompute() {
        post('/api/rank', rankRequest()).then(function(res) {
            if (!res.success) return;

            var banner = document.getElementById('recommend');
            if (res.recommended) {
                banner.innerHTML = '<div class="banner">Recommended policy: ' +
                    esc(res.recommended.policy) + ' (PV(ETNB) = ' + esc(res.recommended.pv_etnb) + ')</div>';
            } else {
                banner.innerHTML = '<div class="warning">No recommendation: top score is missing. Check the table for blank or non-numeric cells.</div>';
            }

            document.getElementById('rank-warnings').innerHTML = (res.warnings || []).map(function(w) {
                return '<div class="warning">' + esc(w) + '</div>';
            }).join('');

            document.getElementById('rank-body').innerHTML = (res.scores || []).map(function(s) {
                var cls = (s.rank === 1 && s.pv_etnb !== '') ? ' class="best"' : '';
                return '<tr' + cls + '><td>' + s.rank + '</td><td>' + esc(s.policy) +
                    '</td><td>' + esc(s.pv_etnb) + '</td><td>' + esc(s.prob_sum) + '</td></tr>';
            }).join('');

            document.getElementById('detail-body').innerHTML = (res.rows || []).map(function(r) {
                return '<tr><td>' + esc(r.policy) + '</td><td>' + esc(r.outcome) +
                    '</td><td>' + esc(r.prob) + '</td><td>' + esc(r.pv_tnb) +
                    '</td><td>' + esc(r.weighted_pv_tnb) + '</td></tr>';
            }).join('');
        });
    }

    // --- sensitivity ---
    document.getElementById('run-sensitivity').addEventListener('click', function() {
        var card = document.getElementById('sensitivity-card');
        var out = document.getElementById('sensitivity-result');
        card.style.display = 'block';

        post('/api/sensitivity', {
            mode: state.mode,
            table: state.table,
            rate_min: 0,
            rate_max: 0.30,
            step_size: 0.005
        }).then(function(res) {
            if (!res.success) {
                out.innerHTML = '<div class="error">' + esc(res.error) + '</div>';
                return;
            }
            // Collapse points into winner ranges
            var ranges = [];
            (res.points || []).forEach(function(p) {
                if (!p.best_policy) return;
                var last = ranges[ranges.length - 1];
                if (last && last.policy === p.best_policy) { last.to = p.rate; return; }
                ranges.push({policy: p.best_policy, from: p.rate, to: p.rate});
            });
            var html = '<table><thead><tr><th>Rate range</th><th>Winner</th></tr></thead><tbody>' +
                ranges.map(function(r) {
                    return '<tr><td>' + fmtPct(r.from) + ' – ' + fmtPct(r.to) +
                        '</td><td>' + esc(r.policy) + '</td></tr>';
                }).join('') + '</tbody></table>';
            if (res.flip_rates && res.flip_rates.length > 0) {
                html += '<p class="caption">Recommendation flips at: ' +
                    res.flip_rates.map(fmtPct).join(', ') + '</p>';
            } else {
                html += '<p class="caption">The recommendation is stable across the whole rate range.</p>';
            }
            out.innerHTML = html;
        });
    });

    // --- exports ---
    function download(url) {
        fetch(url, {
            method: 'POST',
            headers: {'Content-Type': 'application/json'},
            body: JSON.stringify(rankRequest())
        }).then(function(r) {
            var name = 'greenlight_ranking';
            var cd = r.headers.get('Content-Disposition') || '';
            var m = cd.match(/filename="(.+)"/);
            if (m) name = m[1];
            return r.blob().then(function(blob) {
                var a = document.createElement('a');
                a.href = URL.createObjectURL(blob);
                a.download = name;
                a.click();
                URL.revokeObjectURL(a.href);
            });
        });
    }
    document.getElementById('export-csv').addEventListener('click', function() { download('/api/export-csv'); });
    document.getElementById('export-pdf').addEventListener('click', function() { download('/api/export-pdf'); });

    // --- PV calculator ---
    var pvTimer = null;
    function pvRecompute() {
        clearTimeout(pvTimer);
        pvTimer = setTimeout(function() {
            post('/api/pv', {
                discount_rate: parseFloat(document.getElementById('pv-rate').value),
                benefits: ['pv-b0', 'pv-b1', 'pv-b2', 'pv-b3'].map(function(id) {
                    return document.getElementById(id).value;
                })
            }).then(function(res) {
                if (!res.success) return;
                document.getElementById('pv-result').textContent = res.pv === '' ? '—' : res.pv;
            });
        }, 200);
    }
    document.getElementById('pv-rate').addEventListener('input', function() {
        document.getElementById('pv-rate-value').textContent =
            fmtPct(parseFloat(document.getElementById('pv-rate').value));
        pvRecompute();
    });
    ['pv-b0', 'pv-b1', 'pv-b2', 'pv-b3'].forEach(function(id) {
        document.getElementById(id).addEventListener('input', pvRecompute);
    });

    // --- resource solver ---
    var resTimer = null;
    function resourceRecompute() {
        clearTimeout(resTimer);
        resTimer = setTimeout(function() {
            post('/api/resource', {
                a: parseFloat(document.getElementById('res-a').value) || 0,
                b: parseFloat(document.getElementById('res-b').value) || 0,
                mc: parseFloat(document.getElementById('res-mc').value) || 0,
                discount_rate: parseFloat(document.getElementById('res-r').value) || 0,
                reserves: parseFloat(document.getElementById('res-q').value) || 0
            }).then(function(res) {
                var errDiv = document.getElementById('resource-error');
                var out = document.getElementById('resource-result');
                if (!res.success) {
                    errDiv.innerHTML = '<div class="error">' + esc(res.error) + '</div>';
                    out.innerHTML = '';
                    return;
                }
                errDiv.innerHTML = '';
                out.innerHTML =
                    '<div class="metric"><div class="label">q1*</div><div class="value">' + esc(res.q1) + '</div></div>' +
                    '<div class="metric"><div class="label">q2*</div><div class="value">' + esc(res.q2) + '</div></div>' +
                    '<div class="metric"><div class="label">P1*</div><div class="value">' + esc(res.p1) + '</div></div>' +
                    '<div class="metric"><div class="label">P2*</div><div class="value">' + esc(res.p2) + '</div></div>' +
                    '<p class="caption">MNB1 = ' + esc(res.mnb1) + ', MNB2 = ' + esc(res.mnb2) + '</p>' +
                    '<p class="caption">Check: P1−MC = ' + esc(res.check_lhs) +
                    ' and (P2−MC)/(1+r) = ' + esc(res.check_rhs) + ' (should match).</p>';
            });
        }, 200);
    }
    ['res-a', 'res-b', 'res-mc', 'res-r', 'res-q'].forEach(function(id) {
        document.getElementById(id).addEventListener('input', resourceRecompute);
    });

    // --- startup: load config, then presets ---
    fetch('/api/config').then(function(r) { return r.json(); }).then(function(cfg) {
        if (cfg && cfg.optimizer) {
            state.mode = cfg.optimizer.input_mode === 'stream' ? 'stream' : 'direct';
            state.rate = cfg.optimizer.discount_rate || 0.07;
            state.rateSource = cfg.optimizer.rate_source || 'custom';
            state.table = cfg.optimizer.table || [];

            document.querySelector('input[name=mode][value=' + state.mode + ']').checked = true;
            rateSlider.value = state.rate;
            document.getElementById('rate-value').textContent = fmtPct(state.rate);

            if (cfg.pv_calculator) {
                document.getElementById('pv-rate').value = cfg.pv_calculator.discount_rate || 0.07;
                document.getElementById('pv-rate-value').textContent =
                    fmtPct(parseFloat(document.getElementById('pv-rate').value));
                (cfg.pv_calculator.benefits || []).slice(0, 4).forEach(function(b, i) {
                    document.getElementById('pv-b' + i).value = b;
                });
            }
            if (cfg.resource) {
                document.getElementById('res-a').value = cfg.resource.a;
                document.getElementById('res-b').value = cfg.resource.b;
                document.getElementById('res-mc').value = cfg.resource.mc;
                document.getElementById('res-r').value = cfg.resource.discount_rate;
                document.getElementById('res-q').value = cfg.resource.reserves;
            }
        }
        updateSensitivityButton();
        renderInputTable();
        recompute();
        pvRecompute();
        resourceRecompute();

        return fetch('/api/presets').then(function(r) { return r.json(); });
    }).then(function(presets) {
        (presets || []).forEach(function(p) {
            var opt = document.createElement('option');
            opt.value = p.id;
            opt.dataset.rate = p.rate;
            opt.textContent = p.name;
            opt.title = p.description;
            rateSource.appendChild(opt);
        });
        rateSource.value = state.rateSource;
    });
})();
</script>
</body>
</html>
`
