package rates

import (
	"sort"

	"github.com/tagsnap/tagsnap/internal/model"
)

// usdRates is the static substitute data used when the live rate
// source is unavailable: multipliers from 1 USD into each supported
// currency. Tables for other bases are derived via cross rates.
var usdRates = model.RateTable{
	"USD": 1,
	"EUR": 0.93,
	"GBP": 0.79,
	"JPY": 151.24,
	"CAD": 1.38,
	"AUD": 1.52,
	"CHF": 0.91,
	"CNY": 7.23,
	"INR": 83.34,
	"BRL": 5.16,
	"TRY": 32.26,
}

// FallbackRates builds a deterministic rate table for the given base
// currency from the static USD data. The base currency always maps to
// exactly 1. An unsupported base yields a table containing only the
// base itself, which surfaces downstream as a missing-rate error for
// any other target.
func FallbackRates(base string) model.RateTable {
	perUSD, ok := usdRates[base]
	if !ok || perUSD == 0 {
		return model.RateTable{base: 1}
	}

	table := make(model.RateTable, len(usdRates))
	for code, rate := range usdRates {
		table[code] = rate / perUSD
	}
	return table.Normalize(base)
}

// SupportedFallbackCurrencies returns the currency codes covered by
// the static fallback data, sorted for stable display.
func SupportedFallbackCurrencies() []string {
	codes := usdRates.Currencies()
	sort.Strings(codes)
	return codes
}
