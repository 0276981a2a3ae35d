package service

import (
	"context"
	"errors"
	"sync"

	"resumeparser/internal/extract"
	"resumeparser/internal/model"
)

var samplePDF = []byte("%PDF-1.4\n% resume fixture\n")

type fakeExtractor struct {
	result extract.Result
	calls  int
}

func (f *fakeExtractor) Extract(ctx context.Context, data []byte) extract.Result {
	f.calls++
	return f.result
}

type fakeScorer struct {
	analysis model.Analysis
	gotText  string
	gotJD    string
}

func (f *fakeScorer) Analyze(ctx context.Context, resumeText, jobDescription string) model.Analysis {
	f.gotText, f.gotJD = resumeText, jobDescription
	return f.analysis
}

type published struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []published
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, published{key: routingKey, payload: payload})
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

var errBroker = errors.New("broker down")
