// Package workflow implements the acquisition state machine that
// drives a scan from capture through detection, currency selection,
// conversion, and result display.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tagsnap/tagsnap/internal/common"
	"github.com/tagsnap/tagsnap/internal/currency"
	"github.com/tagsnap/tagsnap/internal/model"
)

// ErrInvalidTransition is returned when an event is not legal in the
// current stage.
var ErrInvalidTransition = errors.New("invalid workflow transition")

// ErrStaleResult is returned when an asynchronous step finished after
// the workflow had already moved on; its result was dropped.
var ErrStaleResult = errors.New("stale result dropped")

// Detector extracts pricing information from a captured image.
type Detector interface {
	Detect(ctx context.Context, image []byte, mode model.DetectMode) (model.DetectionResult, error)
}

// RateSource fetches a rate table for a base currency. Implementations
// must always return a valid table (substituting fallback data on
// upstream failure), so the only conversion failure the workflow can
// see is a missing target rate.
type RateSource interface {
	FetchRates(ctx context.Context, base string) (model.RateTable, error)
}

// Comparer looks up alternative offers for the scanned product.
type Comparer interface {
	Compare(ctx context.Context, productName string, price float64, currency string) ([]model.Comparison, error)
}

// Config holds workflow configuration.
type Config struct {
	DefaultTarget string
	Mode          model.DetectMode
}

// Session is a read-only snapshot of the workflow's transient state.
type Session struct {
	Detection   *model.DetectionResult
	Original    *model.Money
	Converted   *model.Money
	Image       []byte
	Comparisons []model.Comparison
	Target      string
	Rate        float64
	Stage       Stage
}

// Workflow is the acquisition state machine for one user session.
//
// Detection and rate fetching run without the lock held; commits
// re-acquire it and verify a generation counter so a result arriving
// after the user navigated away is dropped instead of corrupting the
// stage it no longer belongs to.
type Workflow struct {
	detector  Detector
	rates     RateSource
	comparer  Comparer
	detection *model.DetectionResult
	original  *model.Money
	converted *model.Money

	target        string
	defaultTarget string
	mode          model.DetectMode

	image       []byte
	comparisons []model.Comparison

	rate  float64
	gen   uint64
	stage Stage
	mu    sync.Mutex
}

// New creates a workflow in the Landing stage.
func New(detector Detector, rates RateSource, comparer Comparer, cfg Config) *Workflow {
	target := cfg.DefaultTarget
	if target == "" {
		target = "USD"
	}
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModePriceTag
	}

	return &Workflow{
		detector:      detector,
		rates:         rates,
		comparer:      comparer,
		stage:         StageLanding,
		target:        target,
		defaultTarget: target,
		mode:          mode,
	}
}

// Stage returns the currently active stage.
func (w *Workflow) Stage() Stage {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stage
}

// Session returns a snapshot of the current state for display.
func (w *Workflow) Session() Session {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Session{
		Stage:  w.stage,
		Image:  w.image,
		Target: w.target,
		Rate:   w.rate,
	}
	if w.detection != nil {
		d := *w.detection
		s.Detection = &d
	}
	if w.original != nil {
		m := *w.original
		s.Original = &m
	}
	if w.converted != nil {
		m := *w.converted
		s.Converted = &m
	}
	s.Comparisons = append(s.Comparisons, w.comparisons...)
	return s
}

// GetStarted moves from the Landing or Welcome screen to the camera.
func (w *Workflow) GetStarted() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageLanding && w.stage != StageWelcome {
		return fmt.Errorf("%w: get-started from %s", ErrInvalidTransition, w.stage)
	}
	w.stage = StageCamera
	return nil
}

// Capture commits a captured image: the workflow enters Processing,
// runs detection, and either proceeds to conversion (currency known),
// pauses for currency selection (currency unknown), or falls back to
// the camera (detection failed).
func (w *Workflow) Capture(ctx context.Context, image []byte) error {
	w.mu.Lock()
	if w.stage != StageCamera {
		w.mu.Unlock()
		return fmt.Errorf("%w: capture from %s", ErrInvalidTransition, w.stage)
	}
	w.image = image
	w.stage = StageProcessing
	gen := w.gen
	mode := w.mode
	target := w.target
	w.mu.Unlock()

	result, err := w.detector.Detect(ctx, image, mode)
	if err != nil {
		w.mu.Lock()
		defer w.mu.Unlock()
		if w.gen != gen {
			return ErrStaleResult
		}
		// Detection failure is recoverable: back to the camera.
		w.image = nil
		w.detection = nil
		w.original = nil
		w.converted = nil
		w.stage = StageCamera
		common.LogError(err, "detection failed, returning to camera", common.Fields{"mode": mode})
		return common.NewUserError("could not read the image, please try again", err)
	}

	w.mu.Lock()
	if w.gen != gen || w.stage != StageProcessing {
		w.mu.Unlock()
		return ErrStaleResult
	}
	d := result
	w.detection = &d
	w.original = &model.Money{Amount: result.Price, Currency: result.Currency}
	if !result.HasCurrency() {
		w.stage = StageCurrencySelect
		w.mu.Unlock()
		slog.Info("currency not detected, asking user",
			"price", result.Price,
			"confidence", result.Confidence)
		return nil
	}
	w.mu.Unlock()

	return w.convert(ctx, gen, StageProcessing, result.Currency, target, result.Price)
}

// ConfirmCurrencies resumes a paused scan with user-chosen source and
// target currencies.
func (w *Workflow) ConfirmCurrencies(ctx context.Context, source, target string) error {
	if source == "" || target == "" {
		return common.NewUserError("both currencies are required", nil)
	}

	w.mu.Lock()
	// Legal from CurrencySelect, and from Processing after a missing-rate
	// failure left the scan parked there awaiting a different target.
	if w.stage != StageCurrencySelect && w.stage != StageProcessing {
		w.mu.Unlock()
		return fmt.Errorf("%w: confirm-currencies from %s", ErrInvalidTransition, w.stage)
	}
	if w.detection == nil {
		w.mu.Unlock()
		return fmt.Errorf("%w: no detected price to convert", ErrInvalidTransition)
	}
	from := w.stage
	price := w.detection.Price
	w.detection.Currency = source
	w.original = &model.Money{Amount: price, Currency: source}
	w.target = target
	gen := w.gen
	w.mu.Unlock()

	return w.convert(ctx, gen, from, source, target, price)
}

// convert runs the conversion sub-flow: fetch rates for the source
// currency, compute the target amount, and enter Result. A missing
// target rate keeps the workflow in its current stage so the user can
// pick a different currency or retry.
func (w *Workflow) convert(ctx context.Context, gen uint64, from Stage, source, target string, price float64) error {
	table, err := w.rates.FetchRates(ctx, source)
	if err != nil {
		// Rate sources recover upstream failure themselves; reaching
		// here means something more basic went wrong (bad base code,
		// canceled context). Stay put.
		return common.NewUserError("could not fetch conversion rates", err)
	}

	converted, err := currency.Convert(price, source, target, table)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("no rate available for %s", target), err)
	}

	rate := 1.0
	if source != target {
		rate = table[target]
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen || w.stage != from {
		return ErrStaleResult
	}
	w.converted = &model.Money{Amount: converted, Currency: target}
	w.rate = rate
	w.target = target
	w.stage = StageResult
	common.LogInfo("conversion complete", common.Fields{
		"source":    source,
		"target":    target,
		"amount":    price,
		"converted": converted,
		"rate":      rate,
	})
	return nil
}

// ChangeCurrency reopens currency selection from the result screen.
func (w *Workflow) ChangeCurrency() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageResult {
		return fmt.Errorf("%w: change-currency from %s", ErrInvalidTransition, w.stage)
	}
	w.stage = StageCurrencySelect
	return nil
}

// NewScan returns to the camera for another capture, clearing the
// image and prices but keeping the target currency preference.
func (w *Workflow) NewScan() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageResult {
		return fmt.Errorf("%w: new-scan from %s", ErrInvalidTransition, w.stage)
	}
	w.gen++
	w.image = nil
	w.detection = nil
	w.original = nil
	w.converted = nil
	w.rate = 0
	w.comparisons = nil
	w.stage = StageCamera
	return nil
}

// Reset clears all transient state and returns to the landing screen.
// Legal from any stage.
func (w *Workflow) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.gen++
	w.image = nil
	w.detection = nil
	w.original = nil
	w.converted = nil
	w.rate = 0
	w.comparisons = nil
	w.target = w.defaultTarget
	w.stage = StageLanding
}

// OpenComparison overlays best-effort price comparisons on the result.
// All result data stays intact.
func (w *Workflow) OpenComparison(ctx context.Context) error {
	w.mu.Lock()
	if w.stage != StageResult {
		w.mu.Unlock()
		return fmt.Errorf("%w: compare from %s", ErrInvalidTransition, w.stage)
	}
	if w.detection == nil || w.original == nil {
		w.mu.Unlock()
		return fmt.Errorf("%w: no detection to compare", ErrInvalidTransition)
	}
	name := w.detection.ProductName
	price := w.original.Amount
	code := w.original.Currency
	gen := w.gen
	w.mu.Unlock()

	comparisons, err := w.comparer.Compare(ctx, name, price, code)
	if err != nil {
		// Comparison is best-effort: treat failure as an empty list.
		slog.Warn("comparison failed", "error", err)
		comparisons = nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.gen != gen || w.stage != StageResult {
		return ErrStaleResult
	}
	w.comparisons = comparisons
	w.stage = StageComparing
	return nil
}

// CloseComparison dismisses the comparison overlay.
func (w *Workflow) CloseComparison() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stage != StageComparing {
		return fmt.Errorf("%w: close-comparison from %s", ErrInvalidTransition, w.stage)
	}
	w.comparisons = nil
	w.stage = StageResult
	return nil
}
