package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/events"
	"resumeparser/internal/extract"
	"resumeparser/internal/logging"
	"resumeparser/internal/model"
	"resumeparser/internal/scoring"
)

const sampleText = "Jane Doe\njane@example.com\n(555) 123-4567\nSummary:\nBuilt things.\nExperience:\nDid stuff."

func TestParserService_Parse(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		data    []byte
		opts    []Option
		wantErr error
	}{
		{name: "empty file", data: nil, wantErr: ErrFileRequired},
		{name: "not a pdf", data: []byte("PK\x03\x04 docx"), wantErr: ErrUnsupportedFormat},
		{name: "too large", data: samplePDF, opts: []Option{WithMaxBytes(8)}, wantErr: ErrFileTooLarge},
		{name: "happy path", data: samplePDF},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ext := &fakeExtractor{result: extract.Result{Text: sampleText, Strategy: "layout"}}
			svc := NewParserService(ext, nil, tt.opts...)

			res, err := svc.Parse(ctx, tt.data, "cv.pdf")

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				assert.Zero(t, ext.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, sampleText, res.Text)
			assert.Equal(t, "layout", res.Strategy)
			require.NotNil(t, res.Sections.ContactInfo.Email)
			assert.Equal(t, "jane@example.com", *res.Sections.ContactInfo.Email)
			assert.Equal(t, "Summary:\nBuilt things.", res.Sections.Summary)
		})
	}
}

func TestParserService_ParseSentinel(t *testing.T) {
	ext := &fakeExtractor{result: extract.Result{Text: extract.SentinelExtractionFailed, Sentinel: true}}
	pub := &recordingPublisher{}
	svc := NewParserService(ext, nil, WithPublisher(pub))

	res, err := svc.Parse(context.Background(), samplePDF, "scan.pdf")

	require.NoError(t, err)
	assert.Equal(t, extract.SentinelExtractionFailed, res.Text)
	assert.Equal(t, model.Sections{}, res.Sections)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.RoutingResumeParsed, pub.events[0].key)
	ev := pub.events[0].payload.(events.Parsed)
	assert.True(t, ev.Sentinel)
	assert.Equal(t, "scan.pdf", ev.Filename)
}

func TestParserService_Analyze(t *testing.T) {
	ctx := context.Background()
	ext := &fakeExtractor{result: extract.Result{Text: sampleText, Strategy: "pages"}}
	scorer := &fakeScorer{analysis: model.Analysis{
		ATS: &model.ATSScore{
			ATSScore:        81,
			ScoreBreakdown:  model.ATSBreakdown{KeywordMatch: 72},
			MissingKeywords: []string{"docker"},
			Strengths:       []string{"go"},
			Recommendations: []string{"add metrics"},
		},
		Feedback: &model.Feedback{
			SectionAnalysis:      model.SectionAnalysis{Experience: []string{"Clear ownership", "Lacks numbers"}},
			PriorityImprovements: []string{"Quantify impact"},
		},
	}}
	pub := &recordingPublisher{}
	svc := NewParserService(ext, scorer, WithPublisher(pub))

	res, err := svc.Analyze(ctx, samplePDF, "cv.pdf", "  Go developer  ")

	require.NoError(t, err)
	assert.Equal(t, sampleText, scorer.gotText)
	assert.Equal(t, "Go developer", scorer.gotJD)
	assert.Equal(t, float64(81), res.ATSAnalysis.Score)
	assert.Equal(t, float64(72), res.ATSAnalysis.MatchPercentage)
	assert.Equal(t, []string{"Clear ownership"}, res.ResumeFeedback.Strengths)
	assert.Equal(t, []string{"add metrics"}, res.ResumeFeedback.Suggestions)
	assert.Equal(t, "Summary:\nBuilt things.", res.Sections.Summary)

	require.Len(t, pub.events, 2)
	assert.Equal(t, events.RoutingResumeAnalyzed, pub.events[1].key)
	ev := pub.events[1].payload.(events.Analyzed)
	require.NotNil(t, ev.ATSScore)
	assert.Equal(t, float64(81), *ev.ATSScore)
}

func TestParserService_AnalyzeValidation(t *testing.T) {
	ctx := context.Background()
	scorer := &fakeScorer{}
	svc := NewParserService(&fakeExtractor{}, scorer)

	_, err := svc.Analyze(ctx, nil, "cv.pdf", "jd")
	assert.ErrorIs(t, err, ErrFileRequired)
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = svc.Analyze(ctx, samplePDF, "cv.pdf", "   ")
	assert.ErrorIs(t, err, ErrJobDescriptionRequired)
	assert.ErrorIs(t, err, ErrMissingInput)

	_, err = svc.Analyze(ctx, []byte("hello"), "cv.txt", "jd")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	assert.Empty(t, scorer.gotText)
}

func TestParserService_AnalyzeWithoutScorer(t *testing.T) {
	var buf bytes.Buffer
	ext := &fakeExtractor{result: extract.Result{Text: sampleText, Strategy: "layout"}}
	pub := &recordingPublisher{err: errBroker}
	svc := NewParserService(ext, nil, WithPublisher(pub), WithLogger(logging.New(&buf, time.UTC)))

	res, err := svc.Analyze(context.Background(), samplePDF, "cv.pdf", "jd")

	require.NoError(t, err)
	assert.Equal(t, scoring.ErrDownstreamUnavailable.Error(), res.ATSAnalysis.Error)
	assert.Equal(t, scoring.ErrDownstreamUnavailable.Error(), res.ResumeFeedback.Error)
	assert.Equal(t, []string{}, res.ATSAnalysis.MissingKeywords)
	assert.Contains(t, buf.String(), `"event":"event_publish_failed"`)
}
