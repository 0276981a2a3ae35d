package scoring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"resumeparser/internal/logging"
	"resumeparser/internal/model"
)

const (
	callATS      = "ats"
	callFeedback = "feedback"
)

var tracer = otel.Tracer("resumeparser/internal/scoring")

// Analyzer turns resume text into ATS scores and feedback via a Completer.
type Analyzer struct {
	completer Completer
	limiter   *rate.Limiter
	timeout   time.Duration
	attempts  int
	backoff   time.Duration
	metrics   *Metrics
	logger    *logging.Logger
}

type Option func(*Analyzer)

// WithRateLimit caps outbound calls per second. Non-positive values disable the limit.
func WithRateLimit(perSecond float64) Option {
	return func(a *Analyzer) {
		if perSecond > 0 {
			a.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRetries sets how many times a failed call is retried after the first attempt.
func WithRetries(n int) Option {
	return func(a *Analyzer) {
		if n >= 0 {
			a.attempts = n + 1
		}
	}
}

func WithBackoff(d time.Duration) Option {
	return func(a *Analyzer) { a.backoff = d }
}

func WithMetrics(m *Metrics) Option {
	return func(a *Analyzer) { a.metrics = m }
}

func WithLogger(l *logging.Logger) Option {
	return func(a *Analyzer) { a.logger = l.With(map[string]any{"component": "scoring"}) }
}

func NewAnalyzer(c Completer, opts ...Option) *Analyzer {
	a := &Analyzer{
		completer: c,
		timeout:   30 * time.Second,
		attempts:  3,
		backoff:   500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Score rates resumeText against jobDescription.
func (a *Analyzer) Score(ctx context.Context, resumeText, jobDescription string) (*model.ATSScore, error) {
	var out model.ATSScore
	if err := a.call(ctx, callATS, atsPrompt(resumeText, jobDescription), atsSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Feedback reviews resumeText on its own.
func (a *Analyzer) Feedback(ctx context.Context, resumeText string) (*model.Feedback, error) {
	var out model.Feedback
	if err := a.call(ctx, callFeedback, feedbackPrompt(resumeText), feedbackSchema, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Analyze runs Score and Feedback concurrently. A failure in one call is reported in the
// matching error field and does not cancel the other.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobDescription string) model.Analysis {
	var res model.Analysis
	var g errgroup.Group

	g.Go(func() error {
		ats, err := a.Score(ctx, resumeText, jobDescription)
		if err != nil {
			res.ATSError = publicMessage(err)
			return nil
		}
		res.ATS = ats
		return nil
	})
	g.Go(func() error {
		fb, err := a.Feedback(ctx, resumeText)
		if err != nil {
			res.FeedbackError = publicMessage(err)
			return nil
		}
		res.Feedback = fb
		return nil
	})
	_ = g.Wait()

	return res
}

func (a *Analyzer) call(ctx context.Context, call, prompt string, schema *jsonschema.Schema, out any) error {
	ctx, span := tracer.Start(ctx, "scoring."+call, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	raw, err := retry(ctx, a.attempts, a.backoff, func() (string, error) {
		if a.limiter != nil {
			if err := a.limiter.Wait(ctx); err != nil {
				return "", fmt.Errorf("%w: %v", ErrDownstreamUnavailable, err)
			}
		}
		return a.completer.Complete(ctx, prompt)
	})
	if err != nil {
		a.metrics.observe(call, "unavailable")
		span.RecordError(err)
		span.SetStatus(codes.Error, "unavailable")
		a.logger.Error("scoring_call_failed", map[string]any{"call": call, "error": err.Error()})
		return err
	}

	if err := decode(schema, CleanJSON(raw), out); err != nil {
		a.metrics.observe(call, "invalid")
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid response")
		a.logger.Error("scoring_response_invalid", map[string]any{"call": call, "error": err.Error()})
		return err
	}

	a.metrics.observe(call, "success")
	span.SetAttributes(attribute.Int("scoring.response_bytes", len(raw)))
	return nil
}

// retry runs fn up to attempts times with linear backoff. ErrRejected stops it at once.
func retry[T any](ctx context.Context, attempts int, backoff time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		if errors.Is(err, ErrRejected) {
			return zero, err
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return zero, fmt.Errorf("%w: %v", ErrDownstreamUnavailable, ctx.Err())
		case <-time.After(backoff * time.Duration(i+1)):
		}
	}
	if !errors.Is(lastErr, ErrDownstreamUnavailable) && !errors.Is(lastErr, ErrInvalidResponse) {
		lastErr = fmt.Errorf("%w: %v", ErrDownstreamUnavailable, lastErr)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

func publicMessage(err error) string {
	if errors.Is(err, ErrInvalidResponse) {
		return ErrInvalidResponse.Error()
	}
	return ErrDownstreamUnavailable.Error()
}
