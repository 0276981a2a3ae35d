package service

import (
	"context"
	"strings"

	"resumeparser/internal/events"
	"resumeparser/internal/model"
	"resumeparser/internal/scoring"
	"resumeparser/internal/segment"
)

// ParseResult is the text and section map extracted from one PDF.
type ParseResult struct {
	Text     string         `json:"text"`
	Sections model.Sections `json:"sections"`
	Strategy string         `json:"-"`
}

// AnalyzeResult extends ParseResult with the condensed scoring views and the full documents.
type AnalyzeResult struct {
	ParseResult
	ATSAnalysis    model.ATSSummary      `json:"ats_analysis"`
	ResumeFeedback model.FeedbackSummary `json:"resume_feedback"`
	Details        model.Analysis        `json:"details"`
}

// ParserService handles the stateless parse and analyze use cases.
type ParserService interface {
	// Parse extracts text and sections. Extraction failure is reported through the sentinel text, not an error.
	Parse(ctx context.Context, data []byte, filename string) (*ParseResult, error)

	// Analyze parses the PDF and scores the raw text against jobDescription. Scoring failures
	// are reported inside the result.
	Analyze(ctx context.Context, data []byte, filename, jobDescription string) (*AnalyzeResult, error)
}

type parserService struct {
	base
	scorer Scorer
}

// NewParserService builds a ParserService. A nil scorer reports every analysis as unavailable.
func NewParserService(ext Extractor, scorer Scorer, opts ...Option) ParserService {
	return &parserService{base: newBase(ext, opts), scorer: scorer}
}

func (s *parserService) Parse(ctx context.Context, data []byte, filename string) (*ParseResult, error) {
	if err := s.validatePDF(data); err != nil {
		return nil, err
	}

	res := s.extractor.Extract(ctx, data)
	s.publish(ctx, events.RoutingResumeParsed, s.parsedEvent("", filename, res))

	return &ParseResult{
		Text:     res.Text,
		Sections: segment.Segment(res.Text),
		Strategy: res.Strategy,
	}, nil
}

func (s *parserService) Analyze(ctx context.Context, data []byte, filename, jobDescription string) (*AnalyzeResult, error) {
	if err := s.validatePDF(data); err != nil {
		return nil, err
	}
	jobDescription = strings.TrimSpace(jobDescription)
	if jobDescription == "" {
		return nil, ErrJobDescriptionRequired
	}

	parsed, err := s.Parse(ctx, data, filename)
	if err != nil {
		return nil, err
	}

	var analysis model.Analysis
	if s.scorer == nil {
		msg := scoring.ErrDownstreamUnavailable.Error()
		analysis = model.Analysis{ATSError: msg, FeedbackError: msg}
	} else {
		analysis = s.scorer.Analyze(ctx, parsed.Text, jobDescription)
	}

	ev := events.Analyzed{
		Filename:      filename,
		ATSError:      analysis.ATSError,
		FeedbackError: analysis.FeedbackError,
		OccurredAt:    s.now(),
	}
	if analysis.ATS != nil {
		score := analysis.ATS.ATSScore
		ev.ATSScore = &score
		ev.MissingKeywords = analysis.ATS.MissingKeywords
	}
	s.publish(ctx, events.RoutingResumeAnalyzed, ev)

	return &AnalyzeResult{
		ParseResult:    *parsed,
		ATSAnalysis:    scoring.SummarizeATS(analysis),
		ResumeFeedback: scoring.SummarizeFeedback(analysis),
		Details:        analysis,
	}, nil
}
