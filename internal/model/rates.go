package model

// RateTable maps a currency code to its multiplier relative to a base
// currency: 1 unit of base equals rate units of the keyed currency.
// Tables are built fresh per conversion request and never mutated.
type RateTable map[string]float64

// Rate looks up the multiplier for a target currency.
func (rt RateTable) Rate(code string) (float64, bool) {
	rate, ok := rt[code]
	return rate, ok
}

// Normalize returns a copy of the table that is guaranteed to map the
// base currency to exactly 1, regardless of what the upstream source
// returned for it.
func (rt RateTable) Normalize(base string) RateTable {
	normalized := make(RateTable, len(rt)+1)
	for code, rate := range rt {
		normalized[code] = rate
	}
	normalized[base] = 1
	return normalized
}

// Currencies returns the codes present in the table.
func (rt RateTable) Currencies() []string {
	codes := make([]string, 0, len(rt))
	for code := range rt {
		codes = append(codes, code)
	}
	return codes
}
