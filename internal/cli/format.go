package cli

import (
	"fmt"

	"github.com/tagsnap/tagsnap/internal/model"
)

// zeroDecimalCurrencies have no minor unit; amounts render without a
// fractional part.
var zeroDecimalCurrencies = map[string]bool{
	"JPY": true,
	"KRW": true,
	"VND": true,
	"IDR": true,
	"CLP": true,
}

// currencySymbols maps common ISO codes to their display symbols.
// Unknown codes fall back to the code itself.
var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"CNY": "¥",
	"TRY": "₺",
	"INR": "₹",
	"KRW": "₩",
	"BRL": "R$",
	"CAD": "C$",
	"AUD": "A$",
	"CHF": "CHF ",
}

// FormatMoney renders an amount with its currency symbol, dropping the
// fractional part for zero-decimal currencies.
func FormatMoney(m model.Money) string {
	symbol, ok := currencySymbols[m.Currency]
	if !ok {
		symbol = m.Currency + " "
	}
	if zeroDecimalCurrencies[m.Currency] {
		return fmt.Sprintf("%s%.0f", symbol, m.Amount)
	}
	return fmt.Sprintf("%s%.2f", symbol, m.Amount)
}

// FormatRate renders an exchange rate between two currencies.
func FormatRate(source, target string, rate float64) string {
	return fmt.Sprintf("1 %s = %.4f %s", source, rate, target)
}

// FormatPercentDiff renders a signed percent difference, e.g. "-10.5%".
func FormatPercentDiff(pct float64) string {
	return fmt.Sprintf("%+.1f%%", pct)
}
