package scoring

import (
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const scoreSchema = `{"type": "number", "minimum": 0, "maximum": 100}`

const stringList = `{"type": "array", "items": {"type": "string"}}`

var atsSchema = jsonschema.MustCompileString("ats.json", `{
  "type": "object",
  "required": ["ats_score"],
  "properties": {
    "ats_score": `+scoreSchema+`,
    "score_breakdown": {
      "type": "object",
      "properties": {
        "keyword_match": `+scoreSchema+`,
        "experience_match": `+scoreSchema+`,
        "skill_match": `+scoreSchema+`,
        "education_match": `+scoreSchema+`
      }
    },
    "missing_keywords": `+stringList+`,
    "strengths": `+stringList+`,
    "weaknesses": `+stringList+`,
    "recommendations": `+stringList+`
  }
}`)

var feedbackSchema = jsonschema.MustCompileString("feedback.json", `{
  "type": "object",
  "required": ["overview"],
  "properties": {
    "overview": {"type": "string"},
    "section_analysis": {
      "type": "object",
      "properties": {
        "summary": `+stringList+`,
        "experience": `+stringList+`,
        "education": `+stringList+`,
        "skills": `+stringList+`
      }
    },
    "priority_improvements": `+stringList+`,
    "score_breakdown": {
      "type": "object",
      "properties": {
        "clarity": `+scoreSchema+`,
        "relevance": `+scoreSchema+`,
        "quantification": `+scoreSchema+`,
        "ats_optimization": `+scoreSchema+`
      }
    }
  }
}`)

// decode validates raw against schema and unmarshals it into out.
func decode(schema *jsonschema.Schema, raw string, out any) error {
	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}
