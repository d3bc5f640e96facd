package vision

import (
	"context"
	"errors"
	"testing"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
)

func TestMockClientDetectsCurrency(t *testing.T) {
	client := NewMockClient()

	result, err := client.Detect(context.Background(), []byte("tag.jpg"), model.ModePriceTag)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}

	if !result.HasCurrency() {
		t.Error("expected currency to be detected")
	}
	if result.Price != 29.99 {
		t.Errorf("price = %v, want 29.99", result.Price)
	}
}

func TestMockClientUnknownCurrency(t *testing.T) {
	client := NewMockClient()

	result, err := client.Detect(context.Background(), []byte("?tag.jpg"), model.ModePriceTag)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}

	if result.HasCurrency() {
		t.Errorf("currency = %q, want unknown", result.Currency)
	}
}

func TestMockClientReceiptMode(t *testing.T) {
	client := NewMockClient()

	result, err := client.Detect(context.Background(), []byte("receipt.jpg"), model.ModeReceipt)
	if err != nil {
		t.Fatalf("Detect returned error: %v", err)
	}

	if len(result.Items) == 0 {
		t.Fatal("receipt mode should yield line items")
	}
	if result.StoreName == "" {
		t.Error("receipt mode should carry a store name")
	}
}

func TestMockClientFailWith(t *testing.T) {
	client := NewMockClient()
	client.FailWith(common.ErrDetectionFailed)

	_, err := client.Detect(context.Background(), []byte("tag.jpg"), model.ModePriceTag)
	if !errors.Is(err, common.ErrDetectionFailed) {
		t.Errorf("error = %v, want ErrDetectionFailed", err)
	}

	if client.Calls() != 1 {
		t.Errorf("calls = %d, want 1", client.Calls())
	}
}

func TestFactoryRejectsUnknownProvider(t *testing.T) {
	if _, err := NewClient(Config{Provider: "palantir"}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestFactoryDefaultsToMock(t *testing.T) {
	client, err := NewClient(Config{})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if _, ok := client.(*MockClient); !ok {
		t.Errorf("default client = %T, want *MockClient", client)
	}
}
