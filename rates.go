package main

// RatePreset is a named discount-rate convention students can select
// instead of typing a rate by hand
type RatePreset struct {
	ID          string  // Unique identifier (e.g., "omb_base")
	Name        string  // Full name
	ShortName   string  // Short display name
	Rate        float64 // Annual discount rate as decimal (0.07 = 7%)
	Description string  // Where the rate comes from
}

// RatePresets contains the discount-rate conventions offered in the UI.
// Rates follow the conventions commonly cited in benefit-cost analysis
// coursework; "custom" entry is handled by the config, not listed here.
var RatePresets = []RatePreset{
	{
		ID:          "course_default",
		Name:        "Course default (7%)",
		ShortName:   "Course 7%",
		Rate:        0.07,
		Description: "Default rate used in the course problem sets",
	},
	{
		ID:          "omb_base",
		Name:        "OMB Circular A-94 base case",
		ShortName:   "OMB 7%",
		Rate:        0.07,
		Description: "US federal base-case real rate for benefit-cost analysis",
	},
	{
		ID:          "omb_low",
		Name:        "OMB sensitivity (low)",
		ShortName:   "OMB 3%",
		Rate:        0.03,
		Description: "Consumption-based rate used in OMB sensitivity analysis",
	},
	{
		ID:          "social_srtp",
		Name:        "Social rate of time preference",
		ShortName:   "SRTP 2%",
		Rate:        0.02,
		Description: "Low rate often argued for long-horizon environmental policy",
	},
	{
		ID:          "stern",
		Name:        "Stern Review rate",
		ShortName:   "Stern 1.4%",
		Rate:        0.014,
		Description: "Near-zero pure time preference, from the Stern Review on climate",
	},
	{
		ID:          "private_capital",
		Name:        "Pre-tax return on private capital",
		ShortName:   "Capital 10%",
		Rate:        0.10,
		Description: "Opportunity cost of displaced private investment",
	},
}

// GetRatePresetByID returns a rate preset by its ID, or nil if not found
func GetRatePresetByID(id string) *RatePreset {
	for i := range RatePresets {
		if RatePresets[i].ID == id {
			return &RatePresets[i]
		}
	}
	return nil
}
