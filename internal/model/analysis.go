package model

// ATSBreakdown holds the four sub-scores of an ATS compatibility score.
type ATSBreakdown struct {
	KeywordMatch    float64 `json:"keyword_match"`
	ExperienceMatch float64 `json:"experience_match"`
	SkillMatch      float64 `json:"skill_match"`
	EducationMatch  float64 `json:"education_match"`
}

// ATSScore is the scoring document returned by the language model for a resume and job description.
type ATSScore struct {
	ATSScore        float64      `json:"ats_score"`
	ScoreBreakdown  ATSBreakdown `json:"score_breakdown"`
	MissingKeywords []string     `json:"missing_keywords"`
	Strengths       []string     `json:"strengths"`
	Weaknesses      []string     `json:"weaknesses"`
	Recommendations []string     `json:"recommendations"`
}

// SectionAnalysis holds per-section strength/weakness remarks.
type SectionAnalysis struct {
	Summary    []string `json:"summary"`
	Experience []string `json:"experience"`
	Education  []string `json:"education"`
	Skills     []string `json:"skills"`
}

// FeedbackBreakdown holds the four sub-scores of a qualitative review.
type FeedbackBreakdown struct {
	Clarity         float64 `json:"clarity"`
	Relevance       float64 `json:"relevance"`
	Quantification  float64 `json:"quantification"`
	ATSOptimization float64 `json:"ats_optimization"`
}

// Feedback is the qualitative review document returned by the language model.
type Feedback struct {
	Overview             string            `json:"overview"`
	SectionAnalysis      SectionAnalysis   `json:"section_analysis"`
	PriorityImprovements []string          `json:"priority_improvements"`
	ScoreBreakdown       FeedbackBreakdown `json:"score_breakdown"`
}

// Analysis is the combined outcome of the two scoring calls. When a call fails
// its document is nil and the matching error field carries a safe message.
type Analysis struct {
	ATS           *ATSScore `json:"ats,omitempty"`
	ATSError      string    `json:"ats_error,omitempty"`
	Feedback      *Feedback `json:"feedback,omitempty"`
	FeedbackError string    `json:"feedback_error,omitempty"`
}

// ATSSummary is the condensed ATS view returned to clients.
type ATSSummary struct {
	Score           float64  `json:"score"`
	MatchPercentage float64  `json:"match_percentage"`
	MissingKeywords []string `json:"missing_keywords"`
	MatchedKeywords []string `json:"matched_keywords"`
	Error           string   `json:"error,omitempty"`
}

// FeedbackSummary is the condensed feedback view returned to clients.
type FeedbackSummary struct {
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	Suggestions         []string `json:"suggestions"`
	Error               string   `json:"error,omitempty"`
}
