package extract

import (
	"context"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ContentStreamStrategy reads each page's decoded content stream with pdfcpu
// and interprets the text-showing operators directly. It is the most tolerant
// strategy and the least accurate: font encodings are not applied.
type ContentStreamStrategy struct{}

func (ContentStreamStrategy) Name() string { return "content-stream" }

func (ContentStreamStrategy) Extract(ctx context.Context, src Source) (string, error) {
	conf := model.NewDefaultConfiguration()
	pctx, err := api.ReadValidateAndOptimize(src, conf)
	if err != nil {
		return "", fmt.Errorf("pdfcpu read: %w", err)
	}
	if pctx.PageCount == 0 {
		return "", ErrNoPages
	}

	var sb strings.Builder
	for pageNr := 1; pageNr <= pctx.PageCount; pageNr++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		r, err := pdfcpu.ExtractPageContent(pctx, pageNr)
		if err != nil || r == nil {
			continue
		}
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("page %d content: %w", pageNr, err)
		}
		sb.WriteString(textFromContentStream(data))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// tjSpaceThreshold is the TJ kerning adjustment (thousandths of an em) below
// which a word break is assumed.
const tjSpaceThreshold = -200

// textFromContentStream interprets Tj, TJ, ', ", Td, TD, Tm, T* and ET.
func textFromContentStream(data []byte) string {
	var (
		sb       strings.Builder
		operands []token
	)
	newline := func() {
		if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
			sb.WriteByte('\n')
		}
	}
	space := func() {
		s := sb.String()
		if sb.Len() > 0 && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
			sb.WriteByte(' ')
		}
	}

	lex := lexer{data: data}
	for {
		tok, ok := lex.next()
		if !ok {
			break
		}
		if tok.kind != tokOperator {
			operands = append(operands, tok)
			continue
		}
		switch tok.text {
		case "Tj":
			if s, ok := lastString(operands); ok {
				sb.WriteString(s)
			}
		case "'", "\"":
			newline()
			if s, ok := lastString(operands); ok {
				sb.WriteString(s)
			}
		case "TJ":
			for _, op := range arrayOperands(operands) {
				switch op.kind {
				case tokString:
					sb.WriteString(op.text)
				case tokNumber:
					if n, err := strconv.ParseFloat(op.text, 64); err == nil && n < tjSpaceThreshold {
						space()
					}
				}
			}
		case "Td", "TD":
			if len(operands) >= 2 && operands[len(operands)-1].text != "0" {
				newline()
			} else {
				space()
			}
		case "T*", "Tm", "ET":
			newline()
		}
		operands = operands[:0]
	}
	return sb.String()
}

func lastString(ops []token) (string, bool) {
	for i := len(ops) - 1; i >= 0; i-- {
		if ops[i].kind == tokString {
			return ops[i].text, true
		}
	}
	return "", false
}

// arrayOperands returns the tokens between the last '[' and ']'.
func arrayOperands(ops []token) []token {
	start, end := -1, len(ops)
	for i, op := range ops {
		switch op.kind {
		case tokArrayOpen:
			start = i
		case tokArrayClose:
			end = i
		}
	}
	if start < 0 || end <= start {
		return nil
	}
	return ops[start+1 : end]
}

type tokenKind int

const (
	tokOperator tokenKind = iota
	tokString
	tokNumber
	tokName
	tokArrayOpen
	tokArrayClose
	tokOther
)

type token struct {
	kind tokenKind
	text string
}

// lexer is a minimal PDF content stream tokenizer. Dictionaries and inline
// images are skipped as opaque tokens.
type lexer struct {
	data []byte
	pos  int
}

func isPDFSpace(c byte) bool {
	return c == ' ' || c == '\n' || c == '\r' || c == '\t' || c == '\f' || c == 0
}

func isPDFDelimiter(c byte) bool {
	return strings.IndexByte("()<>[]{}/%", c) >= 0
}

func (l *lexer) next() (token, bool) {
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		switch {
		case isPDFSpace(c):
			l.pos++
		case c == '%':
			for l.pos < len(l.data) && l.data[l.pos] != '\n' && l.data[l.pos] != '\r' {
				l.pos++
			}
		case c == '(':
			return token{kind: tokString, text: l.literalString()}, true
		case c == '<':
			if l.pos+1 < len(l.data) && l.data[l.pos+1] == '<' {
				l.pos += 2
				return token{kind: tokOther, text: "<<"}, true
			}
			return token{kind: tokString, text: l.hexString()}, true
		case c == '>':
			l.pos++
			if l.pos < len(l.data) && l.data[l.pos] == '>' {
				l.pos++
			}
			return token{kind: tokOther, text: ">>"}, true
		case c == '[':
			l.pos++
			return token{kind: tokArrayOpen, text: "["}, true
		case c == ']':
			l.pos++
			return token{kind: tokArrayClose, text: "]"}, true
		case c == '/':
			start := l.pos
			l.pos++
			l.word()
			return token{kind: tokName, text: string(l.data[start:l.pos])}, true
		case c == '{' || c == '}' || c == ')':
			l.pos++
		default:
			start := l.pos
			l.word()
			w := string(l.data[start:l.pos])
			if _, err := strconv.ParseFloat(w, 64); err == nil {
				return token{kind: tokNumber, text: w}, true
			}
			return token{kind: tokOperator, text: w}, true
		}
	}
	return token{}, false
}

func (l *lexer) word() {
	for l.pos < len(l.data) && !isPDFSpace(l.data[l.pos]) && !isPDFDelimiter(l.data[l.pos]) {
		l.pos++
	}
}

// literalString reads a balanced (...) string starting at '(' and decodes escapes.
func (l *lexer) literalString() string {
	var sb strings.Builder
	depth := 0
	for l.pos < len(l.data) {
		c := l.data[l.pos]
		l.pos++
		switch c {
		case '(':
			if depth > 0 {
				sb.WriteByte(c)
			}
			depth++
		case ')':
			depth--
			if depth == 0 {
				return sb.String()
			}
			sb.WriteByte(c)
		case '\\':
			if l.pos >= len(l.data) {
				return sb.String()
			}
			e := l.data[l.pos]
			l.pos++
			switch e {
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			case 'b', 'f':
			case '\r', '\n':
				// line continuation
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for k := 0; k < 2 && l.pos < len(l.data) && l.data[l.pos] >= '0' && l.data[l.pos] <= '7'; k++ {
						val = val*8 + int(l.data[l.pos]-'0')
						l.pos++
					}
					sb.WriteByte(byte(val))
				} else {
					sb.WriteByte(e)
				}
			}
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// hexString reads <...>. Two-byte glyph codes cannot be mapped without the
// font's CMap, so only printable single bytes survive.
func (l *lexer) hexString() string {
	l.pos++
	start := l.pos
	for l.pos < len(l.data) && l.data[l.pos] != '>' {
		l.pos++
	}
	raw := strings.Map(func(r rune) rune {
		if isPDFSpace(byte(r)) {
			return -1
		}
		return r
	}, string(l.data[start:l.pos]))
	if l.pos < len(l.data) {
		l.pos++
	}
	if len(raw)%2 == 1 {
		raw += "0"
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return ""
	}
	var sb strings.Builder
	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
