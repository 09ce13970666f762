package notion

import "daily-brief/internal/domain/entity"

// apiBlocks converts the domain block sequence into Notion API block
// objects. A bulleted list becomes one bulleted_list_item per item, since
// the API has no list container; order within the slice is the page order.
func apiBlocks(blocks []entity.Block) []map[string]any {
	var out []map[string]any
	for _, b := range blocks {
		switch b.Type {
		case entity.BlockHeading:
			key := "heading_2"
			if b.HeadingLevel == 3 {
				key = "heading_3"
			}
			out = append(out, map[string]any{
				"object": "block",
				"type":   key,
				key:      map[string]any{"rich_text": richText(b.Spans)},
			})

		case entity.BlockBulletedList:
			for _, item := range b.Items {
				out = append(out, map[string]any{
					"object":             "block",
					"type":               "bulleted_list_item",
					"bulleted_list_item": map[string]any{"rich_text": richText(item)},
				})
			}

		case entity.BlockAudio:
			out = append(out, map[string]any{
				"object": "block",
				"type":   "audio",
				"audio": map[string]any{
					"type":     "external",
					"external": map[string]any{"url": b.AudioURL},
				},
			})

		default:
			out = append(out, map[string]any{
				"object":    "block",
				"type":      "paragraph",
				"paragraph": map[string]any{"rich_text": richText(b.Spans)},
			})
		}
	}
	return out
}

// richText converts emphasis spans into Notion rich text objects.
func richText(spans []entity.Span) []map[string]any {
	out := make([]map[string]any, 0, len(spans))
	for _, s := range spans {
		rt := map[string]any{
			"type": "text",
			"text": map[string]any{"content": s.Text},
		}
		if s.Bold || s.Italic {
			rt["annotations"] = map[string]any{
				"bold":   s.Bold,
				"italic": s.Italic,
			}
		}
		out = append(out, rt)
	}
	return out
}
