package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/model"
)

func newTestWorkflow(detector Detector, rates RateSource) *Workflow {
	if detector == nil {
		detector = &MockDetector{}
	}
	if rates == nil {
		rates = &MockRates{Table: model.RateTable{"USD": 0.031, "EUR": 0.029}}
	}
	return New(detector, rates, &MockComparer{}, Config{DefaultTarget: "USD"})
}

func TestGetStartedReachesCamera(t *testing.T) {
	w := newTestWorkflow(nil, nil)

	require.Equal(t, StageLanding, w.Stage())
	require.NoError(t, w.GetStarted())
	assert.Equal(t, StageCamera, w.Stage())
}

func TestGetStartedOnlyFromLanding(t *testing.T) {
	w := newTestWorkflow(nil, nil)
	require.NoError(t, w.GetStarted())

	err := w.GetStarted()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCaptureWithoutCameraStage(t *testing.T) {
	w := newTestWorkflow(nil, nil)

	err := w.Capture(context.Background(), []byte("img"))
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCaptureMissingCurrencyPausesForSelection(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{
		Price:      39.50,
		Confidence: 0.9,
	}}
	w := newTestWorkflow(detector, nil)
	require.NoError(t, w.GetStarted())

	require.NoError(t, w.Capture(context.Background(), []byte("img")))

	// A scan without a detected currency must never reach Result.
	assert.Equal(t, StageCurrencySelect, w.Stage())
	session := w.Session()
	require.NotNil(t, session.Detection)
	assert.Nil(t, session.Converted)
}

func TestCaptureWithCurrencyReachesResult(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{
		Price:       39.50,
		Currency:    "TRY",
		Confidence:  0.92,
		ProductName: "Wool Scarf",
	}}
	rates := &MockRates{Table: model.RateTable{"USD": 0.031}}
	w := newTestWorkflow(detector, rates)
	require.NoError(t, w.GetStarted())

	require.NoError(t, w.Capture(context.Background(), []byte("img")))

	assert.Equal(t, StageResult, w.Stage())
	session := w.Session()
	require.NotNil(t, session.Converted)
	assert.InDelta(t, 1.2245, session.Converted.Amount, 1e-9)
	assert.Equal(t, "USD", session.Converted.Currency)
	assert.InDelta(t, 0.031, session.Rate, 1e-9)
}

func TestCaptureDetectionFailureReturnsToCamera(t *testing.T) {
	detector := &MockDetector{Err: common.ErrDetectionFailed}
	w := newTestWorkflow(detector, nil)
	require.NoError(t, w.GetStarted())

	err := w.Capture(context.Background(), []byte("img"))

	require.Error(t, err)
	var userErr *common.UserError
	assert.ErrorAs(t, err, &userErr)
	assert.Equal(t, StageCamera, w.Stage())

	session := w.Session()
	assert.Nil(t, session.Detection)
	assert.Nil(t, session.Original)
	assert.Nil(t, session.Converted)
	assert.Nil(t, session.Image)
}

func TestConfirmCurrenciesConverts(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{Price: 100, Confidence: 0.8}}
	rates := &MockRates{Table: model.RateTable{"EUR": 0.93}}
	w := newTestWorkflow(detector, rates)
	require.NoError(t, w.GetStarted())
	require.NoError(t, w.Capture(context.Background(), []byte("img")))
	require.Equal(t, StageCurrencySelect, w.Stage())

	require.NoError(t, w.ConfirmCurrencies(context.Background(), "USD", "EUR"))

	assert.Equal(t, StageResult, w.Stage())
	session := w.Session()
	require.NotNil(t, session.Converted)
	assert.InDelta(t, 93, session.Converted.Amount, 1e-9)
	assert.Equal(t, "USD", session.Original.Currency)
}

func TestConfirmCurrenciesIdentity(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{Price: 100, Confidence: 0.8}}
	rates := &MockRates{Table: model.RateTable{}}
	w := newTestWorkflow(detector, rates)
	require.NoError(t, w.GetStarted())
	require.NoError(t, w.Capture(context.Background(), []byte("img")))

	require.NoError(t, w.ConfirmCurrencies(context.Background(), "EUR", "EUR"))

	session := w.Session()
	require.NotNil(t, session.Converted)
	assert.InDelta(t, 100, session.Converted.Amount, 1e-9)
	assert.InDelta(t, 1, session.Rate, 1e-9)
}

func TestMissingRateStaysPut(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{Price: 50, Currency: "USD", Confidence: 0.9}}
	rates := &MockRates{Table: model.RateTable{"EUR": 0.93}}
	w := New(detector, rates, &MockComparer{}, Config{DefaultTarget: "XXX"})
	require.NoError(t, w.GetStarted())

	err := w.Capture(context.Background(), []byte("img"))

	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrMissingRate)
	// Conversion failure must not advance the workflow.
	assert.Equal(t, StageProcessing, w.Stage())

	// A different target choice recovers the scan.
	require.NoError(t, w.ConfirmCurrencies(context.Background(), "USD", "EUR"))
	assert.Equal(t, StageResult, w.Stage())
}

func TestChangeCurrencyAndBack(t *testing.T) {
	w := scanToResult(t)

	require.NoError(t, w.ChangeCurrency())
	assert.Equal(t, StageCurrencySelect, w.Stage())

	require.NoError(t, w.ConfirmCurrencies(context.Background(), "TRY", "EUR"))
	assert.Equal(t, StageResult, w.Stage())
	assert.Equal(t, "EUR", w.Session().Converted.Currency)
}

func TestNewScanRetainsTargetPreference(t *testing.T) {
	w := scanToResult(t)
	require.NoError(t, w.ChangeCurrency())
	require.NoError(t, w.ConfirmCurrencies(context.Background(), "TRY", "EUR"))

	require.NoError(t, w.NewScan())

	assert.Equal(t, StageCamera, w.Stage())
	session := w.Session()
	assert.Nil(t, session.Image)
	assert.Nil(t, session.Detection)
	assert.Nil(t, session.Converted)
	assert.Equal(t, "EUR", session.Target, "target preference should survive a new scan")
}

func TestResetClearsEverything(t *testing.T) {
	w := scanToResult(t)

	w.Reset()

	assert.Equal(t, StageLanding, w.Stage())
	session := w.Session()
	assert.Nil(t, session.Image)
	assert.Nil(t, session.Detection)
	assert.Nil(t, session.Converted)
	assert.Equal(t, "USD", session.Target, "target should return to the default")
}

func TestComparisonOverlayKeepsResultData(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{
		Price: 39.50, Currency: "TRY", Confidence: 0.92, ProductName: "Wool Scarf",
	}}
	rates := &MockRates{Table: model.RateTable{"USD": 0.031}}
	comparer := &MockComparer{Results: []model.Comparison{
		{ProductName: "Wool Scarf", Price: 35, Currency: "TRY", Source: "Bazaar"},
	}}
	w := New(detector, rates, comparer, Config{DefaultTarget: "USD"})
	require.NoError(t, w.GetStarted())
	require.NoError(t, w.Capture(context.Background(), []byte("img")))

	require.NoError(t, w.OpenComparison(context.Background()))
	assert.Equal(t, StageComparing, w.Stage())

	session := w.Session()
	assert.Len(t, session.Comparisons, 1)
	require.NotNil(t, session.Converted, "result data must stay intact under the overlay")

	require.NoError(t, w.CloseComparison())
	assert.Equal(t, StageResult, w.Stage())
	assert.NotNil(t, w.Session().Converted)
}

func TestComparisonFailureIsBestEffort(t *testing.T) {
	detector := &MockDetector{Result: model.DetectionResult{
		Price: 10, Currency: "USD", Confidence: 0.9, ProductName: "Mug",
	}}
	rates := &MockRates{Table: model.RateTable{"USD": 1}}
	comparer := &MockComparer{Err: errors.New("backend down")}
	w := New(detector, rates, comparer, Config{DefaultTarget: "USD"})
	require.NoError(t, w.GetStarted())
	require.NoError(t, w.Capture(context.Background(), []byte("img")))

	require.NoError(t, w.OpenComparison(context.Background()))

	assert.Equal(t, StageComparing, w.Stage())
	assert.Empty(t, w.Session().Comparisons)
}

func TestStaleDetectionIsDropped(t *testing.T) {
	// Simulate navigation away while detection is in flight: the reset
	// bumps the generation before Capture can commit its result.
	slow := &blockingDetector{
		release: make(chan struct{}),
		started: make(chan struct{}),
		result:  model.DetectionResult{Price: 10, Currency: "USD", Confidence: 0.9},
	}
	rates := &MockRates{Table: model.RateTable{"USD": 1}}
	w := New(slow, rates, &MockComparer{}, Config{DefaultTarget: "USD"})
	require.NoError(t, w.GetStarted())

	done := make(chan error, 1)
	go func() {
		done <- w.Capture(context.Background(), []byte("img"))
	}()
	<-slow.started
	w.Reset()
	close(slow.release)

	err := <-done
	assert.ErrorIs(t, err, ErrStaleResult)
	assert.Equal(t, StageLanding, w.Stage(), "late result must not disturb the reset state")
	assert.Nil(t, w.Session().Converted)
}

// blockingDetector blocks Detect until released, signaling when it starts.
type blockingDetector struct {
	release chan struct{}
	started chan struct{}
	result  model.DetectionResult
}

func (d *blockingDetector) Detect(_ context.Context, _ []byte, _ model.DetectMode) (model.DetectionResult, error) {
	close(d.started)
	<-d.release
	return d.result, nil
}

func scanToResult(t *testing.T) *Workflow {
	t.Helper()
	detector := &MockDetector{Result: model.DetectionResult{
		Price: 39.50, Currency: "TRY", Confidence: 0.92, ProductName: "Wool Scarf",
	}}
	rates := &MockRates{Table: model.RateTable{"USD": 0.031, "EUR": 0.029, "TRY": 1}}
	w := New(detector, rates, &MockComparer{}, Config{DefaultTarget: "USD"})
	require.NoError(t, w.GetStarted())
	require.NoError(t, w.Capture(context.Background(), []byte("img")))
	require.Equal(t, StageResult, w.Stage())
	return w
}
