package main

import (
	"os"
	"path/filepath"
	"testing"
)

// Configuration Loading Tests
//
// Validates the embedded defaults, YAML round-trips, percentage
// preprocessing, and raw-cell coercion.

// =============================================================================
// Embedded Defaults
// =============================================================================

func TestLoadDefaultConfig(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("Embedded default config failed to load: %v", err)
	}

	if config.Mode() != ModeDirect {
		t.Errorf("Default mode should be direct, got %s", config.Mode())
	}
	assertFloatEquals(t, 0.07, config.Optimizer.DiscountRate, "default discount rate")

	// 4 policies x 3 outcomes
	if len(config.Optimizer.Table) != 12 {
		t.Errorf("Default table should have 12 rows, got %d", len(config.Optimizer.Table))
	}

	// The seed table ranks without probability warnings (0.333*3 = 0.999)
	table := ComputePolicyScores(config.Rows(), config.Mode(), config.EffectiveDiscountRate())
	if len(table.Warnings) != 0 {
		t.Errorf("Seed table should not warn, got %v", table.Warnings)
	}

	// Solver defaults match the worked example
	assertFloatEquals(t, 8, config.Resource.A, "default a")
	assertFloatEquals(t, 0.4, config.Resource.B, "default b")
	assertFloatEquals(t, 2, config.Resource.MC, "default mc")
	assertFloatEquals(t, 0.10, config.Resource.Rate, "default resource rate")
	assertFloatEquals(t, 20, config.Resource.Reserves, "default reserves")
}

func TestDefaultTable_EqualProbabilities(t *testing.T) {
	table := DefaultTable()

	for _, row := range table {
		if row.Prob != "0.333" {
			t.Errorf("Seed row %s/%s should have prob 0.333, got %q",
				row.Policy, row.Outcome, row.Prob)
		}
	}
}

// =============================================================================
// YAML Round-Trip
// =============================================================================

func TestSaveAndLoadConfig(t *testing.T) {
	config, err := LoadDefaultConfig()
	if err != nil {
		t.Fatalf("Failed to load defaults: %v", err)
	}
	config.Optimizer.InputMode = string(ModeStream)
	config.Optimizer.DiscountRate = 0.055
	config.Optimizer.Table[0].B2 = "125.5"
	config.Optimizer.Table[1].PVTNB = "" // blank cell survives

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := SaveConfig(config, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Mode() != ModeStream {
		t.Errorf("Input mode lost in round-trip: got %s", loaded.Mode())
	}
	assertFloatEquals(t, 0.055, loaded.Optimizer.DiscountRate, "discount rate round-trip")
	if loaded.Optimizer.Table[0].B2 != "125.5" {
		t.Errorf("Cell lost in round-trip: got %q", loaded.Optimizer.Table[0].B2)
	}
	if loaded.Optimizer.Table[1].PVTNB != "" {
		t.Errorf("Blank cell should stay blank, got %q", loaded.Optimizer.Table[1].PVTNB)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Errorf("Missing file should surface as not-exist, got %v", err)
	}
}

// =============================================================================
// Percentage Preprocessing
// =============================================================================

func TestLoadConfig_PercentageRates(t *testing.T) {
	yaml := `optimizer:
  input_mode: stream
  discount_rate: 7%
  table:
    - policy: A
      outcome: E
      prob: "1"
      b0: "100"
resource:
  a: 8
  b: 0.4
  mc: 2
  discount_rate: 10%
  reserves: 20
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	assertFloatEquals(t, 0.07, config.Optimizer.DiscountRate, "7%% parsed as 0.07")
	assertFloatEquals(t, 0.10, config.Resource.Rate, "10%% parsed as 0.10")
}

func TestPreprocessPercentages(t *testing.T) {
	tests := []struct {
		input       string
		expected    string
		description string
	}{
		{"rate: 7%", "rate: 0.07", "integer percent"},
		{"rate: 2.5%", "rate: 0.025", "decimal percent"},
		{"rate: 0.07", "rate: 0.07", "plain decimal untouched"},
		{"a: 7%\nb: 3%", "a: 0.07\nb: 0.03", "multiple rates"},
	}

	for _, tc := range tests {
		t.Run(tc.description, func(t *testing.T) {
			if got := preprocessPercentages(tc.input); got != tc.expected {
				t.Errorf("preprocessPercentages(%q) = %q, want %q", tc.input, got, tc.expected)
			}
		})
	}
}

// =============================================================================
// Defaults and Coercion
// =============================================================================

func TestApplyDefaults_FillsGaps(t *testing.T) {
	config := &Config{}
	applyDefaults(config)

	if config.Mode() != ModeDirect {
		t.Errorf("Empty config should default to direct mode")
	}
	if len(config.Optimizer.Table) == 0 {
		t.Errorf("Empty config should get the seed table")
	}
	if config.Resource.B <= 0 {
		t.Errorf("Empty config should get solvable resource defaults, got b=%g", config.Resource.B)
	}
	if config.Sensitivity.StepSize <= 0 {
		t.Errorf("Empty config should get a usable sweep step, got %g", config.Sensitivity.StepSize)
	}
}

func TestTableRowConfig_Row(t *testing.T) {
	cell := TableRowConfig{
		Policy: "A", Outcome: "E",
		Prob: "0.5", PVTNB: "oops",
		B0: "1", B1: "2", B2: "", B3: "4",
	}
	row := cell.Row()

	if row.Policy != "A" || row.Outcome != "E" {
		t.Errorf("Names lost in coercion: %s/%s", row.Policy, row.Outcome)
	}
	assertFloatEquals(t, 0.5, row.Prob, "prob coercion")
	if !IsMissing(row.PVTNB) {
		t.Errorf("Unparseable pv_tnb should be missing, got %v", row.PVTNB)
	}
	assertFloatEquals(t, 1, row.Benefits[0], "b0")
	assertFloatEquals(t, 2, row.Benefits[1], "b1")
	if !IsMissing(row.Benefits[2]) {
		t.Errorf("Blank b2 should be missing, got %v", row.Benefits[2])
	}
	assertFloatEquals(t, 4, row.Benefits[3], "b3")
}

func TestEffectiveDiscountRate_PresetWins(t *testing.T) {
	config := &Config{}
	config.Optimizer.DiscountRate = 0.07

	if r := config.EffectiveDiscountRate(); r != 0.07 {
		t.Errorf("No preset: custom rate should apply, got %g", r)
	}

	config.Optimizer.RateSource = "stern"
	preset := GetRatePresetByID("stern")
	if preset == nil {
		t.Fatal("stern preset should exist")
	}
	if r := config.EffectiveDiscountRate(); r != preset.Rate {
		t.Errorf("Preset should override custom rate: got %g, want %g", r, preset.Rate)
	}

	config.Optimizer.RateSource = "no_such_preset"
	if r := config.EffectiveDiscountRate(); r != 0.07 {
		t.Errorf("Unknown preset should fall back to custom rate, got %g", r)
	}
}

func TestRatePresets_HaveUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for _, p := range RatePresets {
		if seen[p.ID] {
			t.Errorf("Duplicate preset ID %q", p.ID)
		}
		seen[p.ID] = true
		if p.Rate < 0 || p.Rate > 1 {
			t.Errorf("Preset %q rate %g out of range", p.ID, p.Rate)
		}
	}
}
