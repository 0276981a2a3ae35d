// Package segment splits resume text into named sections by looking for
// heading lines, and pulls the first email address and phone number.
package segment

import (
	"regexp"
	"sort"
	"strings"

	"resumeparser/internal/model"
)

// Synonyms lists the heading vocabulary for each logical section, matched case-insensitively.
var Synonyms = []struct {
	Section string
	Words   []string
}{
	{model.SectionSummary, []string{"summary", "objective", "profile", "professional summary", "career objective"}},
	{model.SectionExperience, []string{"experience", "employment", "work history", "work experience", "professional experience", "employment history"}},
	{model.SectionEducation, []string{"education", "academic", "academic background"}},
	{model.SectionSkills, []string{"skills", "technical skills", "competencies", "core competencies"}},
}

var (
	emailRe = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRe = regexp.MustCompile(`(?:\+\d{1,2} )?(?:\(\d{3}\)|\b\d{3})[ .\-]?\d{3}[ .\-]?\d{4}\b`)

	headingRes = compileHeadings()
)

type headingPattern struct {
	section string
	re      *regexp.Regexp
}

// compileHeadings builds one pattern per section. A heading is a synonym at
// the start of a line, optionally indented, followed only by spaces, tabs or a
// colon up to the line break.
func compileHeadings() []headingPattern {
	out := make([]headingPattern, 0, len(Synonyms))
	for _, s := range Synonyms {
		alts := make([]string, len(s.Words))
		for i, w := range s.Words {
			alts[i] = strings.ReplaceAll(regexp.QuoteMeta(w), " ", `[ \t]+`)
		}
		re := regexp.MustCompile(`(?im)^[ \t]*(` + strings.Join(alts, "|") + `)[ \t]*:?[ \t]*\r?\n`)
		out = append(out, headingPattern{section: s.Section, re: re})
	}
	return out
}

// heading is one detected section heading.
type heading struct {
	pos     int
	section string
}

// findHeadings returns every heading of every section ordered by position.
func findHeadings(text string) []heading {
	var hs []heading
	for _, hp := range headingRes {
		for _, m := range hp.re.FindAllStringSubmatchIndex(text, -1) {
			hs = append(hs, heading{pos: m[2], section: hp.section})
		}
	}
	sort.SliceStable(hs, func(i, j int) bool { return hs[i].pos < hs[j].pos })
	return hs
}

// Segment derives the section map from text. It is a pure function: the same
// text always yields the same Sections.
func Segment(text string) model.Sections {
	out := model.Sections{ContactInfo: Contact(text)}

	hs := findHeadings(text)
	for _, s := range Synonyms {
		body := sectionText(text, hs, s.Section)
		switch s.Section {
		case model.SectionSummary:
			out.Summary = body
		case model.SectionExperience:
			out.Experience = body
		case model.SectionEducation:
			out.Education = body
		case model.SectionSkills:
			out.Skills = body
		}
	}
	return out
}

// sectionText slices from the section's first heading up to the next heading
// of any section that starts after it.
func sectionText(text string, hs []heading, section string) string {
	start := -1
	for _, h := range hs {
		if h.section == section {
			start = h.pos
			break
		}
	}
	if start < 0 {
		return ""
	}

	end := len(text)
	i := sort.Search(len(hs), func(i int) bool { return hs[i].pos > start })
	if i < len(hs) {
		end = hs[i].pos
	}
	return strings.TrimSpace(text[start:end])
}

// Contact returns the first email and the first phone number found in text.
func Contact(text string) model.ContactInfo {
	var ci model.ContactInfo
	if m := emailRe.FindString(text); m != "" {
		ci.Email = &m
	}
	if m := phoneRe.FindString(text); m != "" {
		ci.Phone = &m
	}
	return ci
}
