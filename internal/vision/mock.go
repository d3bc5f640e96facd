package vision

import (
	"context"
	"fmt"
	"sync"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
)

// MockClient is a deterministic detection client used for tests and
// offline demos. The first byte of the image selects the scripted
// response, so fixtures can steer the workflow without a network.
type MockClient struct {
	err   error
	calls int
	mu    sync.Mutex
}

// NewMockClient creates a new mock detection client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

// FailWith makes every subsequent Detect call return err.
func (m *MockClient) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns the number of Detect invocations.
func (m *MockClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns a scripted result. Images starting with '?' simulate
// a tag whose currency could not be read; everything else detects a
// 29.99 USD price tag, or a small receipt/menu in those modes.
func (m *MockClient) Detect(_ context.Context, image []byte, mode model.DetectMode) (model.DetectionResult, error) {
	m.mu.Lock()
	m.calls++
	err := m.err
	m.mu.Unlock()

	if err != nil {
		return model.DetectionResult{}, err
	}
	if len(image) == 0 {
		return model.DetectionResult{}, fmt.Errorf("%w: empty image", common.ErrDetectionFailed)
	}
	if !mode.Valid() {
		return model.DetectionResult{}, fmt.Errorf("%w: unknown mode %q", common.ErrDetectionFailed, mode)
	}

	switch mode {
	case model.ModeReceipt:
		return model.DetectionResult{
			Currency:      "EUR",
			Confidence:    0.88,
			StoreName:     "Mercado Central",
			Tax:           1.05,
			Total:         12.55,
			PaymentMethod: "card",
			TransactionID: "rcpt-0042",
			Items: []model.LineItem{
				{Name: "Olive Oil", Price: 7.50, Currency: "EUR", Quantity: 1, Category: "Pantry"},
				{Name: "Manchego", Price: 4.00, Currency: "EUR", Quantity: 1, Category: "Dairy"},
			},
		}, nil
	case model.ModeMenu:
		return model.DetectionResult{
			Currency:       "JPY",
			Confidence:     0.83,
			RestaurantName: "Ramen Yokocho",
			Items: []model.LineItem{
				{Name: "Shoyu Ramen", Price: 950, Currency: "JPY", Quantity: 1, Category: "Noodles"},
				{Name: "Gyoza", Price: 450, Currency: "JPY", Quantity: 1, Category: "Sides"},
			},
		}, nil
	default:
	}

	if image[0] == '?' {
		return model.DetectionResult{
			Price:       29.99,
			Confidence:  0.92,
			ProductName: "Wool Scarf",
		}, nil
	}

	return model.DetectionResult{
		Price:           29.99,
		Currency:        "USD",
		Confidence:      0.92,
		ProductName:     "Wool Scarf",
		ProductCategory: "Apparel",
	}, nil
}
