package service

import "testing"

func TestRuleBasedPrice_ReferenceVilla(t *testing.T) {
	// 50 + 2*25 + 1*15 + 100 + 40 + 60 + 10 + 1*10 + 2*10
	features := FeatureVector{2, 1, 30, 1, 1, 2, 1, 2}

	if got := RuleBasedPrice(features); got != 355 {
		t.Errorf("RuleBasedPrice() = %.2f, want 355.00", got)
	}
}

func TestRuleBasedPrice_BeachDistanceBreakpoints(t *testing.T) {
	// Base vector with every other adjustment at zero: 50 + small garden (0) + wifi tier 1 (10)
	const base = 60.0

	tests := []struct {
		distance   float64
		adjustment float64
	}{
		{0, 100},
		{50, 100},
		{51, 50},
		{199, 50},
		{200, 50},
		{201, 0},
		{500, 0},
		{999, 0},
		{1000, -30},
		{5000, -30},
	}

	for _, tt := range tests {
		features := FeatureVector{0, 0, tt.distance, 0, 0, 1, 0, 1}
		got := RuleBasedPrice(features)
		if want := base + tt.adjustment; got != want {
			t.Errorf("distance %.0f: RuleBasedPrice() = %.2f, want %.2f", tt.distance, got, want)
		}
	}
}

func TestRuleBasedPrice_GardenTiers(t *testing.T) {
	tests := []struct {
		name  string
		tier  Tier
		bonus float64
	}{
		{"Small gets no bonus", TierLow, 0},
		{"Medium", TierMedium, 10},
		{"Large", TierHigh, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			features := FeatureVector{0, 0, 500, 0, 0, float64(tt.tier), 0, 1}
			if got, want := RuleBasedPrice(features), 60+tt.bonus; got != want {
				t.Errorf("RuleBasedPrice() = %.2f, want %.2f", got, want)
			}
		})
	}
}

func TestRuleBasedPrice_FarMinimalVilla(t *testing.T) {
	// 50 - 30 + wifi 10 = 30, still above the floor
	features := FeatureVector{0, 0, 1000, 0, 0, 1, 0, 1}

	if got := RuleBasedPrice(features); got != 30 {
		t.Errorf("RuleBasedPrice() = %.2f, want 30.00", got)
	}
}

func TestRuleBasedPrice_LinearTerms(t *testing.T) {
	base := RuleBasedPrice(FeatureVector{0, 0, 500, 0, 0, 1, 0, 1})

	tests := []struct {
		name     string
		features FeatureVector
		delta    float64
	}{
		{"bedroom", FeatureVector{1, 0, 500, 0, 0, 1, 0, 1}, 25},
		{"bathroom", FeatureVector{0, 1, 500, 0, 0, 1, 0, 1}, 15},
		{"pool", FeatureVector{0, 0, 500, 1, 0, 1, 0, 1}, 40},
		{"ocean view", FeatureVector{0, 0, 500, 0, 1, 1, 0, 1}, 60},
		{"ac room", FeatureVector{0, 0, 500, 0, 0, 1, 1, 1}, 10},
		{"wifi tier", FeatureVector{0, 0, 500, 0, 0, 1, 0, 2}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RuleBasedPrice(tt.features) - base; got != tt.delta {
				t.Errorf("Expected +%.2f, got %+.2f", tt.delta, got)
			}
		})
	}
}
