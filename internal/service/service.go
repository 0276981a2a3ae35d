package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resumeparser/internal/events"
	"resumeparser/internal/extract"
	"resumeparser/internal/logging"
	"resumeparser/internal/model"
)

var (
	ErrMissingInput           = errors.New("missing input")
	ErrFileRequired           = fmt.Errorf("%w: pdf file is required", ErrMissingInput)
	ErrJobDescriptionRequired = fmt.Errorf("%w: job description is required", ErrMissingInput)
	ErrUnsupportedFormat      = errors.New("file is not a PDF document")
	ErrFileTooLarge           = errors.New("file exceeds the upload limit")
	ErrIDRequired             = errors.New("id is required")
	ErrNotFound               = errors.New("resume not found")
)

// Extractor turns PDF bytes into text. *extract.Engine satisfies it.
type Extractor interface {
	Extract(ctx context.Context, data []byte) extract.Result
}

// Scorer runs the ATS and feedback calls. *scoring.Analyzer satisfies it.
type Scorer interface {
	Analyze(ctx context.Context, resumeText, jobDescription string) model.Analysis
}

// Option configures the shared dependencies of the services.
type Option func(*base)

func WithPublisher(p events.Publisher) Option {
	return func(b *base) {
		if p != nil {
			b.publisher = p
		}
	}
}

func WithLogger(l *logging.Logger) Option {
	return func(b *base) { b.logger = l.With(map[string]any{"component": "service"}) }
}

// WithMaxBytes rejects uploads larger than n bytes. Zero or negative disables the check.
func WithMaxBytes(n int) Option {
	return func(b *base) { b.maxBytes = n }
}

type base struct {
	extractor Extractor
	publisher events.Publisher
	logger    *logging.Logger
	maxBytes  int
	now       func() time.Time
}

func newBase(ext Extractor, opts []Option) base {
	b := base{
		extractor: ext,
		publisher: events.Nop{},
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) validatePDF(data []byte) error {
	if len(data) == 0 {
		return ErrFileRequired
	}
	if b.maxBytes > 0 && len(data) > b.maxBytes {
		return ErrFileTooLarge
	}
	if !extract.IsPDF(data) {
		return ErrUnsupportedFormat
	}
	return nil
}

// publish never fails the request; broker errors are only logged.
func (b *base) publish(ctx context.Context, routingKey string, payload any) {
	if err := b.publisher.Publish(ctx, routingKey, payload); err != nil {
		b.logger.Warn("event_publish_failed", map[string]any{
			"routing_key": routingKey,
			"error":       err.Error(),
		})
	}
}

func (b *base) parsedEvent(resumeID, filename string, res extract.Result) events.Parsed {
	return events.Parsed{
		ResumeID:   resumeID,
		Filename:   filename,
		Strategy:   res.Strategy,
		TextLength: len(res.Text),
		Sentinel:   res.Sentinel,
		OccurredAt: b.now(),
	}
}
