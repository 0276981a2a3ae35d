package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumeparser/internal/segment"
)

var resumeLines = []string{
	"Summary",
	"Backend engineer with eight years building distributed payment systems in Go.",
	"Experience",
	"Acme Corp, Senior Engineer, 2019 to 2024, led the ledger migration.",
	"Education",
	"BSc Computer Science, State University",
	"Skills",
	"Go, SQL, Kubernetes",
}

// buildPDF wraps content in a one-page PDF using Helvetica as /F1.
func buildPDF(content string) []byte {
	widths := make([]string, 0, 95)
	for c := 32; c <= 126; c++ {
		if c == ' ' {
			widths = append(widths, "278")
		} else {
			widths = append(widths, "556")
		}
	}

	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R] /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>",
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" +
			strings.Join(widths, " ") + "] >>",
		fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content),
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return buf.Bytes()
}

// relativeMovesPDF draws every line inside one text object, moving down with Td.
// The contact line is drawn as two runs on the same baseline.
func relativeMovesPDF() []byte {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 11 Tf\n72 740 Td\n(Jane Doe) Tj\n200 0 Td\n(jane@example.com 555-123-4567) Tj\n-200 -16 Td\n")
	for i, line := range resumeLines {
		if i > 0 {
			sb.WriteString("0 -16 Td\n")
		}
		fmt.Fprintf(&sb, "(%s) Tj\n", line)
	}
	sb.WriteString("ET")
	return buildPDF(sb.String())
}

// nextLinePDF draws every line inside one text object, moving down with T*.
func nextLinePDF() []byte {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 11 Tf\n16 TL\n72 740 Td\n(Jane Doe jane@example.com 555-123-4567) Tj\n")
	for _, line := range resumeLines {
		fmt.Fprintf(&sb, "T*\n(%s) Tj\n", line)
	}
	sb.WriteString("ET")
	return buildPDF(sb.String())
}

// textObjectPerLinePDF positions each line absolutely in its own text object.
func textObjectPerLinePDF() []byte {
	var sb strings.Builder
	all := append([]string{"Jane Doe jane@example.com 555-123-4567"}, resumeLines...)
	for i, line := range all {
		fmt.Fprintf(&sb, "BT\n/F1 11 Tf\n72 %d Td\n(%s) Tj\nET\n", 740-16*i, line)
	}
	return buildPDF(strings.TrimSuffix(sb.String(), "\n"))
}

func assertResumeStructure(t *testing.T, text string) {
	t.Helper()

	lines := strings.Split(text, "\n")
	for _, heading := range []string{"Summary", "Experience", "Education", "Skills"} {
		assert.Contains(t, lines, heading, "heading %q must sit on its own line in %q", heading, text)
	}

	sections := segment.Segment(text)
	assert.Equal(t, resumeLines[1], sections.Summary)
	assert.Equal(t, resumeLines[3], sections.Experience)
	assert.Equal(t, resumeLines[5], sections.Education)
	assert.Equal(t, resumeLines[7], sections.Skills)
	require.NotNil(t, sections.ContactInfo.Email)
	assert.Equal(t, "jane@example.com", *sections.ContactInfo.Email)
}

func TestStrategies_KeepLineStructure(t *testing.T) {
	fixtures := map[string][]byte{
		"relative Td":        relativeMovesPDF(),
		"T*":                 nextLinePDF(),
		"text object a line": textObjectPerLinePDF(),
	}

	tests := []struct {
		strategy Strategy
		fixtures []string
	}{
		{LayoutStrategy{}, []string{"relative Td", "T*", "text object a line"}},
		{ContentStreamStrategy{}, []string{"relative Td", "T*", "text object a line"}},
		// Plain page text only breaks lines on BT and T*.
		{PageStrategy{}, []string{"T*", "text object a line"}},
	}

	for _, tt := range tests {
		for _, name := range tt.fixtures {
			t.Run(tt.strategy.Name()+"/"+name, func(t *testing.T) {
				raw, err := tt.strategy.Extract(context.Background(), bytes.NewReader(fixtures[name]))
				require.NoError(t, err)

				assertResumeStructure(t, Normalize(raw))
			})
		}
	}
}

func TestLayoutStrategy_SeparatesRunsOnOneBaseline(t *testing.T) {
	raw, err := LayoutStrategy{}.Extract(context.Background(), bytes.NewReader(relativeMovesPDF()))
	require.NoError(t, err)

	text := Normalize(raw)
	assert.True(t, strings.HasPrefix(text, "Jane Doe jane@example.com 555-123-4567\nSummary\n"), text)
}

func TestEngine_DefaultStrategiesOnValidPDF(t *testing.T) {
	for name, pdf := range map[string][]byte{
		"relative Td": relativeMovesPDF(),
		"T*":          nextLinePDF(),
	} {
		t.Run(name, func(t *testing.T) {
			res := NewEngine().Extract(context.Background(), pdf)

			require.False(t, res.Sentinel, res.Text)
			assert.Equal(t, "layout", res.Strategy)
			assertResumeStructure(t, res.Text)
		})
	}
}
