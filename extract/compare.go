package extract

import (
	"strings"

	"github.com/use-agent/deckscope/models"
)

// CompareDecks diffs two card lists by case-insensitive name. Output order
// follows the input decks.
func CompareDecks(first, second []models.NormalizedCard) models.DeckDiff {
	diff := models.DeckDiff{
		OnlyInFirst:  []models.NormalizedCard{},
		OnlyInSecond: []models.NormalizedCard{},
	}

	secondByKey := make(map[string]models.NormalizedCard, len(second))
	for _, c := range second {
		secondByKey[strings.ToLower(c.Name)] = c
	}
	firstKeys := make(map[string]struct{}, len(first))

	for _, c := range first {
		key := strings.ToLower(c.Name)
		firstKeys[key] = struct{}{}
		other, ok := secondByKey[key]
		if !ok {
			diff.OnlyInFirst = append(diff.OnlyInFirst, c)
			continue
		}
		diff.CommonCount++
		if other.Quantity != c.Quantity {
			diff.QuantityChanges = append(diff.QuantityChanges, models.QuantityChange{
				Name:   c.Name,
				First:  c.Quantity,
				Second: other.Quantity,
			})
		}
	}
	for _, c := range second {
		if _, ok := firstKeys[strings.ToLower(c.Name)]; !ok {
			diff.OnlyInSecond = append(diff.OnlyInSecond, c)
		}
	}
	return diff
}
