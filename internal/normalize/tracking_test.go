package normalize

import (
	"testing"

	"github.com/ledgerline/invoice-pipeline/constants"
	"github.com/ledgerline/invoice-pipeline/internal/config"
)

func TestClassifyTracking(t *testing.T) {
	rules := config.DefaultTrackingRules()

	tests := []struct {
		identifier string
		want       string
	}{
		{"C-1029", "Caterspeed"},
		{"H22", "Hotel Buyer"},
		{"R77", "Restaurant Supply Store"},
		{"T5", "The Restaurant Store"},
		{"Z9", constants.UnclassifiedTracking},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		if got := ClassifyTracking(tt.identifier, rules); got != tt.want {
			t.Errorf("ClassifyTracking(%q) = %q, want %q", tt.identifier, got, tt.want)
		}
	}
}

func TestClassifyTrackingOrderedFirstMatchWins(t *testing.T) {
	rules := config.DefaultTrackingRules()
	// Contains both C and H; the C rule is listed first.
	if got := ClassifyTracking("CH-1", rules); got != "Caterspeed" {
		t.Errorf("ClassifyTracking(\"CH-1\") = %q, want Caterspeed", got)
	}
}

func TestClassifyTrackingUnclassifiedIsNotEmpty(t *testing.T) {
	// No marker and no identifier must stay distinct outcomes.
	rules := config.DefaultTrackingRules()
	unmatched := ClassifyTracking("Z9", rules)
	absent := ClassifyTracking("", rules)
	if unmatched == absent {
		t.Fatalf("unmatched (%q) and absent (%q) must differ", unmatched, absent)
	}
}
