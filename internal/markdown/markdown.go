// Package markdown converts the constrained markdown subset emitted by the
// summarizers into ordered, typed content blocks. It is a best-effort
// renderer: malformed input degrades to literal text and conversion never
// fails, because the page body is rebuilt from this output on every run and
// must be deterministic for identical input.
package markdown

import (
	"strings"

	"daily-brief/internal/domain/entity"
)

// Convert turns a summary string into an ordered block sequence.
//
// Recognized line shapes, processed top to bottom:
//   - "## " prefix:  level-2 heading block
//   - "### " prefix: level-3 heading block
//   - "- " prefix:   list item; consecutive bullet lines are grouped into
//     one bulleted-list block
//   - blank line:    block boundary only, nothing emitted
//   - anything else: paragraph block
//
// Inline emphasis (**bold**, *italic*, _italic_) is parsed into span
// annotations on the surrounding block, never into separate blocks.
func Convert(md string) []entity.Block {
	var blocks []entity.Block
	var listItems [][]entity.Span

	flushList := func() {
		if len(listItems) > 0 {
			blocks = append(blocks, entity.BulletedList(listItems))
			listItems = nil
		}
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case trimmed == "":
			flushList()
		case strings.HasPrefix(trimmed, "### "):
			flushList()
			blocks = append(blocks, entity.Heading(3, ParseSpans(strings.TrimSpace(trimmed[4:]))))
		case strings.HasPrefix(trimmed, "## "):
			flushList()
			blocks = append(blocks, entity.Heading(2, ParseSpans(strings.TrimSpace(trimmed[3:]))))
		case strings.HasPrefix(trimmed, "- "):
			listItems = append(listItems, ParseSpans(strings.TrimSpace(trimmed[2:])))
		default:
			flushList()
			blocks = append(blocks, entity.Paragraph(ParseSpans(trimmed)))
		}
	}
	flushList()

	return blocks
}

// ParseSpans parses inline emphasis markers into annotated spans.
// An unterminated marker is kept as literal text.
func ParseSpans(s string) []entity.Span {
	return parseEmphasis(s, false, false)
}

func parseEmphasis(s string, bold, italic bool) []entity.Span {
	var spans []entity.Span
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			spans = append(spans, entity.Span{Text: literal.String(), Bold: bold, Italic: italic})
			literal.Reset()
		}
	}

	i := 0
	for i < len(s) {
		if !bold && strings.HasPrefix(s[i:], "**") {
			if end := strings.Index(s[i+2:], "**"); end > 0 {
				flush()
				spans = append(spans, parseEmphasis(s[i+2:i+2+end], true, italic)...)
				i += end + 4
				continue
			}
			// Unterminated bold marker: fall through as literal text.
		}
		if !italic && (s[i] == '*' || s[i] == '_') && !strings.HasPrefix(s[i:], "**") {
			marker := s[i]
			if end := strings.IndexByte(s[i+1:], marker); end > 0 {
				flush()
				spans = append(spans, parseEmphasis(s[i+1:i+1+end], bold, true)...)
				i += end + 2
				continue
			}
		}
		literal.WriteByte(s[i])
		i++
	}
	flush()

	return spans
}
