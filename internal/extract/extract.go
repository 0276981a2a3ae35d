// Package extract turns PDF bytes into plain text by trying an ordered list of
// extraction strategies and returning the first result that carries enough text.
package extract

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"resumeparser/internal/logging"
)

var tracer = otel.Tracer("resumeparser/internal/extract")

// Sentinel texts returned instead of content. Use IsSentinel to detect them.
const (
	SentinelExtractionFailed = "Unable to extract meaningful text from this PDF."
	SentinelNoText           = "[No text found in PDF]"
)

// DefaultMinTextLength is the number of characters a strategy must exceed for its output to be used.
const DefaultMinTextLength = 100

// IsSentinel reports whether text is one of the failure sentinels rather than extracted content.
func IsSentinel(text string) bool {
	return text == SentinelExtractionFailed || text == SentinelNoText
}

// IsPDF reports whether data carries the %PDF- header. The header may be
// preceded by up to 1024 bytes of garbage, as readers commonly tolerate.
func IsPDF(data []byte) bool {
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	return bytes.Contains(head, []byte("%PDF-"))
}

// Source is the input handed to a strategy. It is rewound to offset zero
// before every strategy runs.
type Source interface {
	io.ReadSeeker
	io.ReaderAt
	Size() int64
}

// Strategy extracts raw text from a PDF.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, src Source) (string, error)
}

// StrategyFunc adapts a function to the Strategy interface.
type StrategyFunc struct {
	ID string
	Fn func(ctx context.Context, src Source) (string, error)
}

func (s StrategyFunc) Name() string { return s.ID }

func (s StrategyFunc) Extract(ctx context.Context, src Source) (string, error) {
	return s.Fn(ctx, src)
}

// DefaultStrategies returns the built-in strategies in priority order:
// layout-aware rows, page-by-page plain text, then raw content streams.
func DefaultStrategies() []Strategy {
	return []Strategy{LayoutStrategy{}, PageStrategy{}, ContentStreamStrategy{}}
}

// Result is the outcome of one extraction.
type Result struct {
	Text string `json:"text"`
	// Strategy names the strategy whose output was used; empty for sentinels.
	Strategy string `json:"strategy,omitempty"`
	Sentinel bool   `json:"sentinel"`
}

// Engine runs strategies in order. It holds no per-call state and is safe for concurrent use.
type Engine struct {
	strategies []Strategy
	minLength  int
	logger     *logging.Logger
	metrics    *Metrics
}

// Option configures an Engine.
type Option func(*Engine)

// WithStrategies replaces the default strategy list.
func WithStrategies(s ...Strategy) Option {
	return func(e *Engine) { e.strategies = s }
}

// WithMinTextLength overrides DefaultMinTextLength. Non-positive values are ignored.
func WithMinTextLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minLength = n
		}
	}
}

// WithLogger sets the logger used for per-strategy failures.
func WithLogger(l *logging.Logger) Option {
	return func(e *Engine) { e.logger = l.With(map[string]any{"component": "extract"}) }
}

// WithMetrics records per-strategy outcomes.
func WithMetrics(m *Metrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds an Engine with DefaultStrategies unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		strategies: DefaultStrategies(),
		minLength:  DefaultMinTextLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns normalized text from the first strategy whose output exceeds
// the minimum length. It never fails: when no strategy qualifies the result
// holds a sentinel. data is only read.
func (e *Engine) Extract(ctx context.Context, data []byte) Result {
	ctx, span := tracer.Start(ctx, "extract.Extract")
	defer span.End()

	res := e.extract(ctx, data)
	span.SetAttributes(
		attribute.Int("pdf.bytes", len(data)),
		attribute.String("extract.strategy", res.Strategy),
		attribute.Bool("extract.sentinel", res.Sentinel),
	)
	return res
}

func (e *Engine) extract(ctx context.Context, data []byte) Result {
	src := bytes.NewReader(data)
	var sawBlank, sawShort bool

	for _, s := range e.strategies {
		if ctx.Err() != nil {
			e.logger.Warn("extraction_cancelled", map[string]any{"strategy": s.Name(), "error": ctx.Err().Error()})
			break
		}
		if _, err := src.Seek(0, io.SeekStart); err != nil {
			e.logger.Error("extraction_rewind_failed", map[string]any{"strategy": s.Name(), "error": err.Error()})
			break
		}

		start := time.Now()
		raw, err := runStrategy(ctx, s, src)
		elapsed := time.Since(start)
		if err != nil {
			e.metrics.observe(s.Name(), outcomeError)
			e.logger.Warn("extraction_strategy_failed", map[string]any{
				"strategy":    s.Name(),
				"error":       err.Error(),
				"duration_ms": elapsed.Milliseconds(),
			})
			continue
		}

		text := Normalize(raw)
		n := utf8.RuneCountInString(text)
		if n > e.minLength {
			e.metrics.observe(s.Name(), outcomeSuccess)
			e.logger.Info("extraction_strategy_succeeded", map[string]any{
				"strategy":    s.Name(),
				"chars":       n,
				"duration_ms": elapsed.Milliseconds(),
			})
			return Result{Text: text, Strategy: s.Name()}
		}
		if n == 0 {
			sawBlank = true
		} else {
			sawShort = true
		}
		e.metrics.observe(s.Name(), outcomeTooShort)
		e.logger.Info("extraction_strategy_too_short", map[string]any{
			"strategy":  s.Name(),
			"chars":     n,
			"threshold": e.minLength,
		})
	}

	sentinel := SentinelExtractionFailed
	if sawBlank && !sawShort {
		sentinel = SentinelNoText
	}
	e.metrics.observeSentinel()
	return Result{Text: sentinel, Sentinel: true}
}

// runStrategy converts a panic inside a strategy into an error. PDF parsers
// panic on some malformed inputs.
func runStrategy(ctx context.Context, s Strategy, src Source) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy %s panicked: %v", s.Name(), r)
		}
	}()
	return s.Extract(ctx, src)
}
