package scoring

import (
	"strings"

	"resumeparser/internal/model"
)

var negativeMarkers = []string{"weak", "improve", "lack"}

// SummarizeATS condenses an analysis into the client-facing ATS view.
func SummarizeATS(a model.Analysis) model.ATSSummary {
	out := model.ATSSummary{
		MissingKeywords: []string{},
		MatchedKeywords: []string{},
		Error:           a.ATSError,
	}
	if a.ATS == nil {
		return out
	}
	out.Score = a.ATS.ATSScore
	out.MatchPercentage = a.ATS.ScoreBreakdown.KeywordMatch
	out.MissingKeywords = nonNil(a.ATS.MissingKeywords)
	out.MatchedKeywords = nonNil(a.ATS.Strengths)
	return out
}

// SummarizeFeedback condenses an analysis into the client-facing feedback view. Strengths
// come from the positive section remarks, falling back to the ATS strengths.
func SummarizeFeedback(a model.Analysis) model.FeedbackSummary {
	out := model.FeedbackSummary{
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Suggestions:         []string{},
		Error:               a.FeedbackError,
	}

	if a.Feedback != nil {
		out.Strengths = positivePoints(a.Feedback.SectionAnalysis)
		out.AreasForImprovement = nonNil(a.Feedback.PriorityImprovements)
	}
	if a.ATS != nil {
		if len(out.Strengths) == 0 {
			out.Strengths = nonNil(a.ATS.Strengths)
		}
		if len(out.AreasForImprovement) == 0 {
			out.AreasForImprovement = nonNil(a.ATS.Weaknesses)
		}
		out.Suggestions = nonNil(a.ATS.Recommendations)
	}
	return out
}

func positivePoints(s model.SectionAnalysis) []string {
	points := []string{}
	for _, section := range [][]string{s.Summary, s.Experience, s.Education, s.Skills} {
		for _, p := range section {
			if !isNegative(p) {
				points = append(points, p)
			}
		}
	}
	return points
}

func isNegative(point string) bool {
	lower := strings.ToLower(point)
	for _, m := range negativeMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
