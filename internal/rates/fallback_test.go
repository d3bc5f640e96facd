package rates

import (
	"math"
	"testing"
)

func TestFallbackRatesBaseIsOne(t *testing.T) {
	for _, base := range SupportedFallbackCurrencies() {
		table := FallbackRates(base)
		if table[base] != 1 {
			t.Errorf("FallbackRates(%s)[%s] = %v, want exactly 1", base, base, table[base])
		}
		if len(table) != len(SupportedFallbackCurrencies()) {
			t.Errorf("FallbackRates(%s) has %d entries, want %d",
				base, len(table), len(SupportedFallbackCurrencies()))
		}
	}
}

func TestFallbackRatesCrossRate(t *testing.T) {
	// EUR base derived from USD data: rate(EUR->JPY) = usd[JPY]/usd[EUR].
	table := FallbackRates("EUR")

	want := 151.24 / 0.93
	if math.Abs(table["JPY"]-want) > 1e-9 {
		t.Errorf("EUR->JPY = %v, want %v", table["JPY"], want)
	}
}

func TestFallbackRatesRoundTrip(t *testing.T) {
	usd := FallbackRates("USD")
	jpy := FallbackRates("JPY")

	product := usd["JPY"] * jpy["USD"]
	if math.Abs(product-1) > 1e-9 {
		t.Errorf("usd->jpy * jpy->usd = %v, want 1 within tolerance", product)
	}
}

func TestFallbackRatesUnsupportedBase(t *testing.T) {
	table := FallbackRates("XXX")

	if table["XXX"] != 1 {
		t.Errorf("unsupported base should still map to 1, got %v", table["XXX"])
	}
	if len(table) != 1 {
		t.Errorf("unsupported base table has %d entries, want 1", len(table))
	}
}
