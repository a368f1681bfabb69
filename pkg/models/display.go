package models

// Chunk kinds and display item kinds. Tagged unions are encoded as a
// kind field plus the populated payload field.
const (
	ChunkText = "text"
	ChunkLink = "link"

	ItemTextBlock = "text_block"
	ItemAnime     = "anime"
)

// Chunk is one run of informational text: plain text or a link.
type Chunk struct {
	Kind    string `json:"kind"`
	Content string `json:"content"`
	Href    string `json:"href,omitempty"` // links only; never empty for a link
}

// Block is one decomposed source block (a paragraph or a list item).
// Chunks are ordered. Adjacent text chunks never survive decomposition,
// and a block always has at least one chunk.
type Block struct {
	Chunks []Chunk `json:"chunks"`
}

// DisplayItem is one renderable row of a lookup result.
type DisplayItem struct {
	Kind  string `json:"kind"`
	Block *Block `json:"block,omitempty"` // kind == "text_block"
	Media *Media `json:"media,omitempty"` // kind == "anime"
}

// LinkConfirmation is a pending request to open an external link.
// The link opens only after the user confirms; dismissing or cancelling
// drops it. Never persisted.
type LinkConfirmation struct {
	ID      string `json:"id"`
	URL     string `json:"url"`
	Message string `json:"message"`
}
