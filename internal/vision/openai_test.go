package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetectionPriceTag(t *testing.T) {
	content := `{"price": 24.90, "currency": "EUR", "confidence": 0.91, "productName": "Leather Belt", "productCategory": "Apparel"}`

	result, err := parseDetection(content)
	require.NoError(t, err)

	assert.InDelta(t, 24.90, result.Price, 1e-9)
	assert.Equal(t, "EUR", result.Currency)
	assert.InDelta(t, 0.91, result.Confidence, 1e-9)
	assert.Equal(t, "Leather Belt", result.ProductName)
}

func TestParseDetectionNullCurrency(t *testing.T) {
	content := `{"price": 19.99, "currency": null, "confidence": 0.84, "productName": "Mug"}`

	result, err := parseDetection(content)
	require.NoError(t, err)

	assert.False(t, result.HasCurrency(), "null currency should map to the ask-the-user signal")
	assert.InDelta(t, 19.99, result.Price, 1e-9)
}

func TestParseDetectionMarkdownFence(t *testing.T) {
	content := "```json\n{\"price\": 5.00, \"currency\": \"gbp\", \"confidence\": 0.7}\n```"

	result, err := parseDetection(content)
	require.NoError(t, err)

	assert.Equal(t, "GBP", result.Currency, "currency should be upper-cased")
	assert.InDelta(t, 5.00, result.Price, 1e-9)
}

func TestParseDetectionReceiptItems(t *testing.T) {
	content := `{"price": 0, "currency": "USD", "confidence": 0.88, "storeName": "Corner Deli", "tax": 0.80, "total": 10.80, "items": [{"name": "Sandwich", "price": 8.00, "currency": "USD"}, {"name": "Soda", "price": 2.00, "currency": "USD", "quantity": 2}]}`

	result, err := parseDetection(content)
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, 1, result.Items[0].Quantity, "missing quantity defaults to 1")
	assert.Equal(t, 2, result.Items[1].Quantity)
	assert.Equal(t, "Corner Deli", result.StoreName)
	assert.InDelta(t, 10.80, result.Total, 1e-9)
}

func TestParseDetectionRejectsGarbage(t *testing.T) {
	_, err := parseDetection("I could not find a price in this image.")
	assert.Error(t, err)
}

func TestCleanMarkdownWrapper(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"fenced with language", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanMarkdownWrapper(tt.content))
		})
	}
}
