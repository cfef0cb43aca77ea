package models

// AverageDeckRequest asks for one average deck. Either Commander or
// SourceURL is required; with SourceURL the page is fetched as-is and
// bracket discovery is skipped.
type AverageDeckRequest struct {
	// Commander is the display name, e.g. "Atraxa, Praetors' Voice".
	Commander string `json:"commander"`

	// Bracket is the requested power tier. Aliases such as "precon" or "3"
	// are accepted. Default: the configured default bracket.
	Bracket string `json:"bracket,omitempty"`

	// SourceURL is a direct average-deck page URL.
	SourceURL string `json:"source_url,omitempty"`
}

// DeckQuery holds the query parameters of the commander deck endpoint.
type DeckQuery struct {
	Bracket string `form:"bracket" binding:"omitempty,max=64"`
}

// TagsQuery holds the query parameters of the commander tags endpoint.
type TagsQuery struct {
	// Max caps the number of tags. Default: 20.
	Max int `form:"max" binding:"omitempty,min=1,max=100"`

	// Budget selects the budget or expensive variant of the commander page.
	Budget string `form:"budget" binding:"omitempty,oneof=budget expensive"`
}

// ThemeQuery holds the query parameters of the theme endpoint.
type ThemeQuery struct {
	// Colors narrows the theme to a color identity, e.g. "wubg".
	Colors string `form:"colors" binding:"omitempty,alpha,max=5"`
}

// DeckURLQuery holds the query parameters of the direct deck endpoint.
type DeckURLQuery struct {
	URL       string `form:"url" binding:"required,url"`
	Commander string `form:"commander"`
	Bracket   string `form:"bracket" binding:"omitempty,max=64"`
}
