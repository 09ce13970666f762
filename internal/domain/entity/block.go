package entity

// BlockType enumerates the typed content units a page body is composed of.
type BlockType string

const (
	BlockHeading      BlockType = "heading"
	BlockBulletedList BlockType = "bulleted_list"
	BlockParagraph    BlockType = "paragraph"
	BlockAudio        BlockType = "audio"
)

// Span is a run of text with inline emphasis annotations. Emphasis markers in
// the source markdown are parsed into spans, not into separate blocks.
type Span struct {
	Text   string
	Bold   bool
	Italic bool
}

// PlainSpans wraps plain text in a single unannotated span.
func PlainSpans(text string) []Span {
	if text == "" {
		return nil
	}
	return []Span{{Text: text}}
}

// Block is an immutable typed content unit. An ordered sequence of blocks
// forms a page body. Blocks are value objects and comparable by content,
// which is what makes page synchronization idempotence checkable.
type Block struct {
	Type BlockType

	// HeadingLevel is set for heading blocks (2 or 3).
	HeadingLevel int

	// Spans carries the text content of heading and paragraph blocks.
	Spans []Span

	// Items carries the children of a bulleted list block, one span
	// sequence per list item.
	Items [][]Span

	// AudioURL is the externally reachable artifact URL for audio blocks.
	AudioURL string
}

// Heading builds a heading block of the given level.
func Heading(level int, spans []Span) Block {
	return Block{Type: BlockHeading, HeadingLevel: level, Spans: spans}
}

// Paragraph builds a paragraph block.
func Paragraph(spans []Span) Block {
	return Block{Type: BlockParagraph, Spans: spans}
}

// BulletedList builds a list block from its item span sequences.
func BulletedList(items [][]Span) Block {
	return Block{Type: BlockBulletedList, Items: items}
}

// Audio builds an audio embed block referencing an external URL.
func Audio(url string) Block {
	return Block{Type: BlockAudio, AudioURL: url}
}

// PlainText flattens the block's text content, ignoring annotations.
// List items are joined with newlines. Useful for logging and tests.
func (b Block) PlainText() string {
	switch b.Type {
	case BlockBulletedList:
		var out string
		for i, item := range b.Items {
			if i > 0 {
				out += "\n"
			}
			out += spansText(item)
		}
		return out
	case BlockAudio:
		return b.AudioURL
	default:
		return spansText(b.Spans)
	}
}

func spansText(spans []Span) string {
	var out string
	for _, s := range spans {
		out += s.Text
	}
	return out
}
