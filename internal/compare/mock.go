package compare

import (
	"context"

	"github.com/tagsnap/tagsnap/internal/model"
)

// MockClient returns canned comparison data for tests and offline demos.
type MockClient struct {
	err error
}

// NewMockClient creates a new mock comparison client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// FailWith makes every subsequent Compare call return err.
func (m *MockClient) FailWith(err error) {
	m.err = err
}

// Compare returns two alternatives around the given price.
func (m *MockClient) Compare(_ context.Context, productName string, price float64, currency string) ([]model.Comparison, error) {
	if m.err != nil {
		return nil, m.err
	}

	cheaper := price * 0.9
	pricier := price * 1.15

	return []model.Comparison{
		{
			ProductName:       productName,
			Price:             cheaper,
			Currency:          currency,
			Source:            "BargainMart",
			PercentDifference: -10,
		},
		{
			ProductName:       productName,
			Price:             pricier,
			Currency:          currency,
			Source:            "Boutique Row",
			PercentDifference: 15,
		},
	}, nil
}
