package models

// DeckResponse is the response for the average-deck endpoints.
type DeckResponse struct {
	Success bool               `json:"success"`
	Deck    *AverageDeckResult `json:"deck,omitempty"`

	// TotalCards counts every card including commanders.
	TotalCards int `json:"total_cards,omitempty"`

	// CacheStatus is "hit" or "miss"; empty when caching is disabled.
	CacheStatus string `json:"cache_status,omitempty"`

	Timing TimingInfo   `json:"timing"`
	Error  *ErrorDetail `json:"error,omitempty"`
}

// BracketsResponse is the response for GET /commanders/:name/brackets.
type BracketsResponse struct {
	Success   bool             `json:"success"`
	Discovery *DiscoveryResult `json:"discovery,omitempty"`
	Timing    TimingInfo       `json:"timing"`
	Error     *ErrorDetail     `json:"error,omitempty"`
}

// SummaryResponse is the response for GET /commanders/:name/tags.
type SummaryResponse struct {
	Success bool              `json:"success"`
	Summary *CommanderSummary `json:"summary,omitempty"`
	Timing  TimingInfo        `json:"timing"`
	Error   *ErrorDetail      `json:"error,omitempty"`
}

// ThemeResponse is the response for GET /themes/:tag.
type ThemeResponse struct {
	Success bool         `json:"success"`
	Theme   *ThemeResult `json:"theme,omitempty"`
	Timing  TimingInfo   `json:"timing"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// BudgetResponse is the response for GET /commanders/:name/budget-comparison.
type BudgetResponse struct {
	Success    bool              `json:"success"`
	Comparison *BudgetComparison `json:"comparison,omitempty"`
	Timing     TimingInfo        `json:"timing"`
	Error      *ErrorDetail      `json:"error,omitempty"`
}

// CompareResponse is the response for GET /commanders/:name/compare.
type CompareResponse struct {
	Success    bool               `json:"success"`
	Comparison *BracketComparison `json:"comparison,omitempty"`
	Timing     TimingInfo         `json:"timing"`
	Error      *ErrorDetail       `json:"error,omitempty"`
}

// ErrorResponse is returned by middleware and for malformed requests.
type ErrorResponse struct {
	Success bool         `json:"success"`
	Error   *ErrorDetail `json:"error"`
}

// TimingInfo reports how long the request took.
type TimingInfo struct {
	TotalMs int64 `json:"total_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status       string `json:"status"` // "healthy"
	Uptime       string `json:"uptime"`
	Version      string `json:"version"`
	CacheEntries int    `json:"cache_entries"`
}

// MultiDeckResponse is the response for GET /commanders/:name/decks.
type MultiDeckResponse struct {
	// Status is "completed", "partial" or "failed".
	Status string        `json:"status"`
	Decks  []BracketDeck `json:"decks"`
	Timing TimingInfo    `json:"timing"`
}
