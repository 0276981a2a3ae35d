package extract

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t\f\v\x{00A0}]+`)
	blankLinesRe      = regexp.MustCompile(`\n{3,}`)
)

// Normalize cleans raw extractor output: line endings become \n, runs of
// horizontal whitespace collapse to one space, control characters are dropped,
// lines are right-trimmed and more than one consecutive blank line is squeezed.
// Line structure is kept because section headings are detected per line.
func Normalize(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r == unicode.ReplacementChar, unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
	s = horizontalSpaceRe.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	s = strings.Join(lines, "\n")
	s = blankLinesRe.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
