package compare

import (
	"context"
	"errors"
	"math"
	"testing"
)

func TestBestEffortSwallowsFailure(t *testing.T) {
	mock := NewMockClient()
	mock.FailWith(errors.New("comparison backend down"))

	client := BestEffort(mock)

	results, err := client.Compare(context.Background(), "Wool Scarf", 29.99, "USD")
	if err != nil {
		t.Fatalf("best-effort client must not return an error, got: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty result list on failure, got %d", len(results))
	}
}

func TestBestEffortPassesThrough(t *testing.T) {
	client := BestEffort(NewMockClient())

	results, err := client.Compare(context.Background(), "Wool Scarf", 30, "USD")
	if err != nil {
		t.Fatalf("Compare returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 comparisons, got %d", len(results))
	}
	if results[0].PercentDifference >= 0 {
		t.Errorf("first alternative should be cheaper, diff = %v", results[0].PercentDifference)
	}
}

func TestParseComparisonsPercentDifference(t *testing.T) {
	content := `{"comparisons":[{"productName":"Scarf","price":24.00,"currency":"USD","source":"WebShop"}]}`

	results, err := parseComparisons(content, 30.00)
	if err != nil {
		t.Fatalf("parseComparisons returned error: %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("expected 1 comparison, got %d", len(results))
	}
	if math.Abs(results[0].PercentDifference-(-20)) > 1e-9 {
		t.Errorf("percent difference = %v, want -20", results[0].PercentDifference)
	}
}

func TestParseComparisonsZeroDetectedPrice(t *testing.T) {
	content := `{"comparisons":[{"productName":"Scarf","price":24.00,"currency":"USD","source":"WebShop"}]}`

	results, err := parseComparisons(content, 0)
	if err != nil {
		t.Fatalf("parseComparisons returned error: %v", err)
	}
	if results[0].PercentDifference != 0 {
		t.Errorf("percent difference with zero base = %v, want 0", results[0].PercentDifference)
	}
}
