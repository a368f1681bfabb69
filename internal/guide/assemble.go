package guide

import (
	"watchhub/internal/htmltext"
	"watchhub/pkg/models"
)

// Shown when no series in the dataset mentions the requested anime.
const notFoundMessage = "No watch order found for this anime."

// Assemble builds the display list for a resolved match: series prologue
// first, then entry notes, then the order description, then one anime
// row per step in step order. Steps referencing nothing (null id, or an
// id the provider did not return) are skipped without disturbing the
// rest of the sequence.
func Assemble(match Match, media map[int]models.Media) []models.DisplayItem {
	items := []models.DisplayItem{}

	items = appendBlocks(items, decomposeField(match.Series.PrologueHTML, match.Series.Prologue))
	if match.Series.Notes != "" {
		// notes are plain text with occasional inline markup; wrapping in
		// a paragraph routes them through the same decomposition
		items = appendBlocks(items, htmltext.Decompose("<p>"+match.Series.Notes+"</p>"))
	}
	items = appendBlocks(items, decomposeField(match.Order.DescriptionHTML, match.Order.Description))

	for _, st := range match.Order.Steps {
		if st.AnilistID == nil {
			continue
		}
		m, ok := media[*st.AnilistID]
		if !ok {
			continue
		}
		items = append(items, models.DisplayItem{Kind: models.ItemAnime, Media: &m})
	}
	return items
}

// NotFoundItems is the display list for a lookup miss.
func NotFoundItems() []models.DisplayItem {
	return []models.DisplayItem{{
		Kind: models.ItemTextBlock,
		Block: &models.Block{Chunks: []models.Chunk{{
			Kind:    models.ChunkText,
			Content: notFoundMessage,
		}}},
	}}
}

// decomposeField prefers the HTML form of a field and falls back to the
// plain-text form wrapped in a paragraph.
func decomposeField(markup, plain string) []models.Block {
	if markup != "" {
		return htmltext.Decompose(markup)
	}
	if plain != "" {
		return htmltext.Decompose("<p>" + plain + "</p>")
	}
	return nil
}

func appendBlocks(items []models.DisplayItem, blocks []models.Block) []models.DisplayItem {
	for _, b := range blocks {
		items = append(items, models.DisplayItem{Kind: models.ItemTextBlock, Block: &b})
	}
	return items
}
