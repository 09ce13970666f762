package brief

import (
	"daily-brief/internal/domain/entity"
	"daily-brief/internal/markdown"
)

// BuildPageBlocks assembles the full block sequence of the daily page:
// roundup summary first, then each section's summary in stable group order,
// then the audio embeds (roundup first, then sections) in the same order.
//
// Sections and the roundup must be read-only by the time this runs: every
// AudioRef present here refers to an artifact that was already committed,
// so the page never references audio that does not exist yet.
func BuildPageBlocks(roundup entity.Roundup, sections []entity.Section) []entity.Block {
	var blocks []entity.Block

	blocks = append(blocks, markdown.Convert(roundup.RenderedSummary)...)
	for _, sec := range sections {
		blocks = append(blocks, markdown.Convert(sec.RenderedSummary)...)
	}

	blocks = append(blocks, audioBlocks(RoundupAudioTitle, roundup.AudioRef)...)
	for _, sec := range sections {
		blocks = append(blocks, audioBlocks(SectionAudioTitle(sec.Group), sec.AudioRef)...)
	}

	return blocks
}

// audioBlocks renders one audio embed with its heading, or the explicit
// unavailable placeholder when no artifact was committed for it.
func audioBlocks(title, ref string) []entity.Block {
	heading := entity.Heading(3, entity.PlainSpans(title))
	if ref == "" {
		return []entity.Block{heading, entity.Paragraph(markdown.ParseSpans(AudioUnavailableText))}
	}
	return []entity.Block{heading, entity.Audio(ref)}
}
