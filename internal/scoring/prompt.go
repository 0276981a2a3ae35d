package scoring

import "fmt"

func atsPrompt(resumeText, jobDescription string) string {
	return fmt.Sprintf(`Conduct a comprehensive ATS analysis of this resume against the job description.
Provide detailed scoring in this exact JSON format:
{
  "ats_score": 0-100,
  "score_breakdown": {
    "keyword_match": 0-100,
    "experience_match": 0-100,
    "skill_match": 0-100,
    "education_match": 0-100
  },
  "missing_keywords": ["list", "of", "missing", "terms"],
  "strengths": ["list", "of", "strengths"],
  "weaknesses": ["list", "of", "weaknesses"],
  "recommendations": ["list", "of", "actionable", "steps"]
}

Resume:
%s

Job Description:
%s

Analysis Guidelines:
1. Be strict but fair in scoring.
2. Prioritize role-specific technical skills.
3. Identify both hard and soft skills.
4. Consider industry-standard terminology.

Return only valid JSON. Do not include explanations, markdown, or text before or after the JSON.`, resumeText, jobDescription)
}

func feedbackPrompt(resumeText string) string {
	return fmt.Sprintf(`Analyze this resume and provide structured feedback in exactly this JSON format:
{
  "overview": "summary",
  "section_analysis": {
    "summary": ["strength/weakness"],
    "experience": ["strength/weakness"],
    "education": ["strength/weakness"],
    "skills": ["strength/weakness"]
  },
  "priority_improvements": ["list", "of", "improvements"],
  "score_breakdown": {
    "clarity": 0-100,
    "relevance": 0-100,
    "quantification": 0-100,
    "ats_optimization": 0-100
  }
}

Resume Content:
%s

Base all reasoning only on the provided text. Return only valid JSON.`, resumeText)
}
