package extract

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPages is returned when a PDF opens but has no readable pages.
var ErrNoPages = errors.New("pdf has no readable pages")

func openPDF(src Source) (*pdf.Reader, error) {
	r, err := pdf.NewReader(src, src.Size())
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}
	if r.NumPage() == 0 {
		return nil, ErrNoPages
	}
	return r, nil
}

// LayoutStrategy rebuilds text lines from glyph positions: glyphs are
// grouped into rows by baseline, ordered top to bottom and left to right.
// It keeps resume headings on their own lines even when the content stream
// draws them out of order.
type LayoutStrategy struct{}

func (LayoutStrategy) Name() string { return "layout" }

func (LayoutStrategy) Extract(ctx context.Context, src Source) (string, error) {
	r, err := openPDF(src)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, row := range groupRows(p.Content().Text) {
			line := joinRow(row)
			if line == "" {
				continue
			}
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// groupRows clusters glyphs whose baselines lie within a fraction of the font
// size of each other. Rows come back top to bottom; PDF y grows upwards.
func groupRows(glyphs []pdf.Text) [][]pdf.Text {
	visible := make([]pdf.Text, 0, len(glyphs))
	for _, g := range glyphs {
		if strings.TrimRight(g.S, "\r\n") == "" {
			continue
		}
		visible = append(visible, g)
	}
	sort.SliceStable(visible, func(a, b int) bool { return visible[a].Y > visible[b].Y })

	var rows [][]pdf.Text
	for _, g := range visible {
		if n := len(rows); n > 0 && math.Abs(rows[n-1][0].Y-g.Y) <= rowTolerance(g) {
			rows[n-1] = append(rows[n-1], g)
			continue
		}
		rows = append(rows, []pdf.Text{g})
	}
	return rows
}

func rowTolerance(g pdf.Text) float64 {
	return math.Max(math.Abs(g.FontSize)*0.4, 1)
}

// joinRow concatenates the glyphs of one row, inserting a space where the
// horizontal gap after the previous glyph is wider than a fifth of the font size.
func joinRow(row []pdf.Text) string {
	sorted := make([]pdf.Text, len(row))
	copy(sorted, row)
	sort.SliceStable(sorted, func(a, b int) bool { return sorted[a].X < sorted[b].X })

	var sb strings.Builder
	prevEnd := 0.0
	for _, t := range sorted {
		if sb.Len() > 0 {
			gap := t.X - prevEnd
			last := sb.String()[sb.Len()-1]
			if gap > math.Abs(t.FontSize)*0.2 && last != ' ' && !strings.HasPrefix(t.S, " ") {
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	return strings.TrimSpace(sb.String())
}

// PageStrategy concatenates each page's plain text in content-stream order.
type PageStrategy struct{}

func (PageStrategy) Name() string { return "pages" }

func (PageStrategy) Extract(ctx context.Context, src Source) (string, error) {
	r, err := openPDF(src)
	if err != nil {
		return "", err
	}

	fonts := make(map[string]*pdf.Font)
	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		for _, name := range p.Fonts() {
			if _, ok := fonts[name]; !ok {
				f := p.Font(name)
				fonts[name] = &f
			}
		}
		text, err := p.GetPlainText(fonts)
		if err != nil {
			return "", fmt.Errorf("page %d text: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
