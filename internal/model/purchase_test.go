package model

import (
	"testing"
	"time"
)

func TestPurchaseHasLabel(t *testing.T) {
	p := &Purchase{
		ID:     "p1",
		Date:   time.Now(),
		Labels: []string{"souvenir", "Tokyo Trip"},
	}

	if !p.HasLabel("souvenir") {
		t.Error("expected label 'souvenir' to be present")
	}
	if !p.HasLabel("tokyo trip") {
		t.Error("label comparison should be case-insensitive")
	}
	if p.HasLabel("groceries") {
		t.Error("unexpected label 'groceries'")
	}
}

func TestRateTableNormalize(t *testing.T) {
	rt := RateTable{"EUR": 0.93, "USD": 0.9999}

	normalized := rt.Normalize("USD")

	if normalized["USD"] != 1 {
		t.Errorf("base currency rate = %v, want exactly 1", normalized["USD"])
	}
	if normalized["EUR"] != 0.93 {
		t.Errorf("EUR rate = %v, want 0.93", normalized["EUR"])
	}
	// Original table must not be mutated.
	if rt["USD"] != 0.9999 {
		t.Errorf("Normalize mutated the source table: USD = %v", rt["USD"])
	}
}

func TestDetectModeValid(t *testing.T) {
	for _, mode := range []DetectMode{ModePriceTag, ModeReceipt, ModeMenu} {
		if !mode.Valid() {
			t.Errorf("mode %q should be valid", mode)
		}
	}
	if DetectMode("invoice").Valid() {
		t.Error("mode 'invoice' should be invalid")
	}
}
