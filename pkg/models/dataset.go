package models

// Series is one franchise entry in the community watch-order dataset.
//
// The dataset is a single hand-maintained JSON document, so optional
// fields are simply omitted. Steps reference anime by AniList id only;
// full media records are hydrated separately at lookup time.
type Series struct {
	Title        string       `json:"title"`                   // main franchise title
	AltTitles    []string     `json:"alt_titles,omitempty"`    // alternative titles used for the same franchise
	Prologue     string       `json:"prologue,omitempty"`      // plain-text prologue (fallback)
	PrologueHTML string       `json:"prologue_html,omitempty"` // rendered before everything else
	Notes        string       `json:"notes,omitempty"`         // entry notes; plain text that may carry inline markup
	Orders       []WatchOrder `json:"orders"`
}

// WatchOrder is one recommended viewing sequence within a series.
type WatchOrder struct {
	Name            string `json:"name"` // e.g. "Release order"
	Description     string `json:"description,omitempty"`
	DescriptionHTML string `json:"description_html,omitempty"`
	Steps           []Step `json:"steps"`
}

// Step is a single entry of a watch order.
type Step struct {
	Title    string `json:"title"`
	Optional bool   `json:"optional,omitempty"`
	// AnilistID is null when the dataset has no resolved entry for the
	// step (upcoming seasons, non-AniList extras). Such steps are never
	// matched and never rendered as anime rows.
	AnilistID *int `json:"anilist_id"`
}
