package models

// Media is the provider-shaped anime record used for display.
//
// Fields mirror what the metadata provider returns. Nothing in this
// codebase computes or mutates them; they are read, rendered, and
// passed through.
type Media struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	CoverURL   string `json:"cover_url,omitempty"`
	Format     string `json:"format,omitempty"`      // TV, MOVIE, OVA, ONA, SPECIAL, ...
	Season     string `json:"season,omitempty"`      // WINTER, SPRING, SUMMER, FALL
	SeasonYear int    `json:"season_year,omitempty"` // 0 when unknown
	ListStatus string `json:"list_status,omitempty"` // viewer's list entry, when authenticated
	SiteURL    string `json:"site_url,omitempty"`    // provider detail page
}
