package workflow

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/tagsnap/tagsnap/internal/model"
)

// Suggestion is a non-blocking "capture now" hint produced by the live
// sampler. It never transitions the workflow; the user stays in
// control of when to commit a capture.
type Suggestion struct {
	Currency    string
	ProductName string
	Image       []byte
	Price       float64
	Confidence  float64
}

// FrameSource supplies the current camera frame.
type FrameSource func(ctx context.Context) ([]byte, error)

// SamplerConfig holds live sampler configuration.
type SamplerConfig struct {
	Mode      model.DetectMode
	Interval  time.Duration
	Threshold float64
}

// Sampler periodically runs low-stakes detection against live frames
// while the user is in the Camera stage. Ticks are skipped while a
// previous detection is still in flight, and a rate limiter bounds the
// call rate independently of the ticker.
type Sampler struct {
	detector  Detector
	onSuggest func(Suggestion)
	limiter   *rate.Limiter
	mode      model.DetectMode
	interval  time.Duration
	threshold float64
	inFlight  atomic.Bool
}

// NewSampler creates a live sampler. onSuggest is invoked from the
// sampling goroutine whenever a confident detection comes back.
func NewSampler(detector Detector, cfg SamplerConfig, onSuggest func(Suggestion)) *Sampler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	threshold := cfg.Threshold
	if threshold == 0 {
		threshold = 0.7
	}
	mode := cfg.Mode
	if mode == "" {
		mode = model.ModePriceTag
	}

	return &Sampler{
		detector:  detector,
		onSuggest: onSuggest,
		mode:      mode,
		interval:  interval,
		threshold: threshold,
		limiter:   rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Run samples frames until the context is canceled. Cancel the context
// when leaving the Camera stage; no sampling survives it.
func (s *Sampler) Run(ctx context.Context, frames FrameSource) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sample(ctx, frames)
		}
	}
}

// sample runs one detection attempt, skipping if the previous one is
// still in flight or the limiter disallows another call.
func (s *Sampler) sample(ctx context.Context, frames FrameSource) {
	if !s.limiter.Allow() {
		return
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		slog.Debug("live sample skipped, previous detection still in flight")
		return
	}
	defer s.inFlight.Store(false)

	frame, err := frames(ctx)
	if err != nil {
		slog.Debug("live frame unavailable", "error", err)
		return
	}

	result, err := s.detector.Detect(ctx, frame, s.mode)
	if err != nil {
		// Live detection errors are invisible to the user.
		slog.Debug("live detection failed", "error", err)
		return
	}

	if result.Price <= 0 || !result.HasCurrency() || result.Confidence <= s.threshold {
		return
	}

	s.onSuggest(Suggestion{
		Image:       frame,
		Price:       result.Price,
		Currency:    result.Currency,
		ProductName: result.ProductName,
		Confidence:  result.Confidence,
	})
}
