package workflow

import (
	"context"
	"sync"
	"time"

	"github.com/tagsnap/tagsnap/internal/model"
)

// MockDetector is a scriptable Detector for tests.
type MockDetector struct {
	Result model.DetectionResult
	Err    error
	Delay  time.Duration
	mu     sync.Mutex
	calls  int
}

// Detect returns the scripted result after the configured delay.
func (m *MockDetector) Detect(ctx context.Context, _ []byte, _ model.DetectMode) (model.DetectionResult, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return model.DetectionResult{}, ctx.Err()
		case <-time.After(m.Delay):
		}
	}
	if m.Err != nil {
		return model.DetectionResult{}, m.Err
	}
	return m.Result, nil
}

// Calls returns the number of Detect invocations.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// MockRates is a scriptable RateSource for tests.
type MockRates struct {
	Table model.RateTable
	Err   error
}

// FetchRates returns the scripted table.
func (m *MockRates) FetchRates(_ context.Context, base string) (model.RateTable, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Table.Normalize(base), nil
}

// MockComparer is a scriptable Comparer for tests.
type MockComparer struct {
	Results []model.Comparison
	Err     error
}

// Compare returns the scripted comparisons.
func (m *MockComparer) Compare(_ context.Context, _ string, _ float64, _ string) ([]model.Comparison, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Results, nil
}
