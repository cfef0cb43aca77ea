package extract

import (
	"strings"

	"github.com/use-agent/deckscope/jsonvalue"
	"github.com/use-agent/deckscope/models"
)

// quantityKeys is the priority order for card counts.
var quantityKeys = []string{"qty", "quantity", "count", "copies", "amount", "q"}

// commanderKeys are checked for boolean commander flags; any true wins.
var commanderKeys = []string{"isCommander", "is_commander", "commander"}

// NormalizeCard converts one raw entry into a card record. ok is false for
// entries without a usable name; callers drop those silently.
func NormalizeCard(entry *jsonvalue.Value) (models.NormalizedCard, bool) {
	name, ok := CardName(entry)
	if !ok {
		return models.NormalizedCard{}, false
	}
	card := models.NormalizedCard{Name: name, Quantity: 1}
	if entry.Kind() != jsonvalue.Object {
		return card, true
	}

	for _, key := range quantityKeys {
		if q, ok := coerceInt(lookup(entry, key)); ok {
			card.Quantity = q
			break
		}
	}
	if card.Quantity < 1 {
		card.Quantity = 1
	}

	for _, key := range commanderKeys {
		if flag, ok := lookup(entry, key).Bool(); ok && flag {
			card.IsCommander = true
		}
	}
	return card, true
}

// NormalizeCards normalizes every entry and merges duplicates.
func NormalizeCards(entries []*jsonvalue.Value) []models.NormalizedCard {
	cards := make([]models.NormalizedCard, 0, len(entries))
	for _, e := range entries {
		if c, ok := NormalizeCard(e); ok {
			cards = append(cards, c)
		}
	}
	return MergeCards(cards)
}

// MergeCards collapses cards sharing a case-insensitive name. Quantities are
// summed, commander flags OR-ed, and the first spelling and position win.
func MergeCards(cards []models.NormalizedCard) []models.NormalizedCard {
	out := make([]models.NormalizedCard, 0, len(cards))
	pos := make(map[string]int, len(cards))
	for _, c := range cards {
		key := strings.ToLower(c.Name)
		if i, ok := pos[key]; ok {
			out[i].Quantity += c.Quantity
			out[i].IsCommander = out[i].IsCommander || c.IsCommander
			continue
		}
		pos[key] = len(out)
		out = append(out, c)
	}
	return out
}

// SplitCommander separates the first commander-flagged card from the deck.
// Any further flagged cards are returned as co-commanders; deck keeps the
// original order of the unflagged cards.
func SplitCommander(cards []models.NormalizedCard) (commander *models.NormalizedCard, coCommanders, deck []models.NormalizedCard) {
	deck = make([]models.NormalizedCard, 0, len(cards))
	for _, c := range cards {
		switch {
		case !c.IsCommander:
			deck = append(deck, c)
		case commander == nil:
			first := c
			commander = &first
		default:
			coCommanders = append(coCommanders, c)
		}
	}
	return commander, coCommanders, deck
}
