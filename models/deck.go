package models

// NormalizedCard is one canonical card record. Its identity key is the
// lowercased name.
type NormalizedCard struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	IsCommander bool   `json:"is_commander,omitempty"`
}

// CommanderTag is a community theme with its popularity, when known.
type CommanderTag struct {
	Name      string `json:"name"`
	DeckCount *int   `json:"deck_count,omitempty"`
}

// AverageDeckResult is the outcome of one average-deck extraction.
type AverageDeckResult struct {
	CommanderName string           `json:"commander,omitempty"`
	Bracket       string           `json:"bracket"`
	SourceURL     string           `json:"source_url"`
	DeckCards     []NormalizedCard `json:"deck_cards"`
	CommanderCard *NormalizedCard  `json:"commander_card,omitempty"`

	// CoCommanders holds any further commander-flagged cards (partners,
	// backgrounds) so they are not silently folded into the deck.
	CoCommanders []NormalizedCard `json:"co_commanders,omitempty"`

	AvailableBrackets []string `json:"available_brackets,omitempty"`

	// Approximate is set when discovery found no page for the requested
	// bracket and fell back to the first page it saw.
	Approximate bool `json:"approximate,omitempty"`
}

// TotalCards sums card quantities, commanders included.
func (r *AverageDeckResult) TotalCards() int {
	total := 0
	for _, c := range r.DeckCards {
		total += c.Quantity
	}
	if r.CommanderCard != nil {
		total += r.CommanderCard.Quantity
	}
	for _, c := range r.CoCommanders {
		total += c.Quantity
	}
	return total
}

// DiscoveryResult is the page chosen for a requested bracket plus every
// bracket the commander page offered.
type DiscoveryResult struct {
	URL               string   `json:"url,omitempty"`
	AvailableBrackets []string `json:"available_brackets"`
	Approximate       bool     `json:"approximate,omitempty"`
}

// CommanderSummary bundles the themes and card sections of a commander page.
type CommanderSummary struct {
	Commander string              `json:"commander"`
	Slug      string              `json:"slug"`
	SourceURL string              `json:"source_url"`
	Budget    string              `json:"budget,omitempty"`
	BuildID   string              `json:"build_id,omitempty"`
	Tags      []CommanderTag      `json:"tags"`
	Sections  map[string][]string `json:"sections,omitempty"`
}

// ThemeCard is a card listed on a theme page.
type ThemeCard struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent,omitempty"`
	Synergy float64 `json:"synergy,omitempty"`
}

// ThemeResult is the extracted content of a theme/tag page.
type ThemeResult struct {
	Theme       string      `json:"theme"`
	Header      string      `json:"header"`
	Description string      `json:"description"`
	SourceURL   string      `json:"source_url"`
	Cards       []ThemeCard `json:"cards"`
}

// QuantityChange records a card present in both decks at different counts.
type QuantityChange struct {
	Name   string `json:"name"`
	First  int    `json:"first"`
	Second int    `json:"second"`
}

// DeckDiff compares two decks by card identity.
type DeckDiff struct {
	OnlyInFirst     []NormalizedCard `json:"only_in_first"`
	OnlyInSecond    []NormalizedCard `json:"only_in_second"`
	CommonCount     int              `json:"common_count"`
	QuantityChanges []QuantityChange `json:"quantity_changes,omitempty"`
}

// BudgetComparison contrasts the budget and expensive average decks.
type BudgetComparison struct {
	Commander string             `json:"commander"`
	Budget    *AverageDeckResult `json:"budget"`
	Expensive *AverageDeckResult `json:"expensive"`
	Diff      DeckDiff           `json:"diff"`
}

// BracketComparison contrasts the average decks of two brackets. Diff
// treats First as the baseline.
type BracketComparison struct {
	Commander string             `json:"commander"`
	First     *AverageDeckResult `json:"first"`
	Second    *AverageDeckResult `json:"second"`
	Diff      DeckDiff           `json:"diff"`
}

// BracketDeck is one slot of a multi-bracket request: either a deck or the
// error that prevented it.
type BracketDeck struct {
	Bracket string             `json:"bracket"`
	Deck    *AverageDeckResult `json:"deck,omitempty"`
	Error   *ErrorDetail       `json:"error,omitempty"`
}
