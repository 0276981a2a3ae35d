package model

// Section names produced by the segmenter.
const (
	SectionContactInfo = "contact_info"
	SectionSummary     = "summary"
	SectionExperience  = "experience"
	SectionEducation   = "education"
	SectionSkills      = "skills"
)

// ContactInfo holds the first email address and phone number found in a resume.
// A nil field serialises as JSON null.
type ContactInfo struct {
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

// Sections is the section map derived from extracted resume text.
// Every key is always present; a section that was not found is the empty string.
type Sections struct {
	ContactInfo ContactInfo `json:"contact_info"`
	Summary     string      `json:"summary"`
	Experience  string      `json:"experience"`
	Education   string      `json:"education"`
	Skills      string      `json:"skills"`
}
