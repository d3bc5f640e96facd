// Package currency implements the pure conversion arithmetic between
// currencies using a pre-fetched rate table.
package currency

import (
	"fmt"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
)

// Convert returns amount expressed in the target currency, using a
// rate table keyed by target currencies with rates relative to the
// source currency.
//
// When from and to are the same currency the amount is returned
// unchanged without a table lookup, so a self-entry that drifted from
// 1.0 through floating rounding cannot skew the result. A missing
// target rate is a hard error wrapping common.ErrMissingRate; there is
// no fallback at this layer.
//
// No rounding is applied here. Zero-decimal display rules (JPY and
// friends) belong to the presentation layer.
func Convert(amount float64, from, to string, rates model.RateTable) (float64, error) {
	if from == to {
		return amount, nil
	}

	rate, ok := rates.Rate(to)
	if !ok {
		return 0, fmt.Errorf("%w for %s", common.ErrMissingRate, to)
	}

	return amount * rate, nil
}
