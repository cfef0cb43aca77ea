package scraper

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/use-agent/deckscope/bracket"
	"github.com/use-agent/deckscope/models"
)

// maxConcurrentBrackets bounds the fetches of one multi-bracket request.
const maxConcurrentBrackets = 3

// MultipleBrackets fetches the average deck of every requested bracket
// concurrently. Results keep the order of brackets; a failing bracket
// yields an error slot instead of failing the whole call. Spellings that
// normalize to the same bracket share one fetch.
func (s *Scraper) MultipleBrackets(ctx context.Context, name string, brackets []string) []models.BracketDeck {
	results := make([]models.BracketDeck, len(brackets))

	// slots groups result indexes by normalized bracket, in first-seen order.
	slots := make(map[string][]int)
	var order []string
	for i, b := range brackets {
		results[i].Bracket = b
		key := bracket.Normalize(b)
		if key == "" {
			key = bracket.Normalize(s.defaultBracket)
		}
		if _, ok := slots[key]; !ok {
			order = append(order, key)
		}
		slots[key] = append(slots[key], i)
	}

	sem := make(chan struct{}, maxConcurrentBrackets)
	var wg sync.WaitGroup
	for _, key := range order {
		idxs := slots[key]
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			first := strings.TrimSpace(brackets[idxs[0]])
			deck, _, err := s.AverageDeck(ctx, models.AverageDeckRequest{Commander: name, Bracket: first})
			for _, idx := range idxs {
				if err != nil {
					results[idx].Error = models.AsExtractError(err).ToDetail()
					continue
				}
				d := *deck
				if b := strings.TrimSpace(brackets[idx]); b != "" {
					d.Bracket = b
				}
				results[idx].Deck = &d
			}
		}()
	}
	wg.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	slog.Info("multi-bracket request finished",
		"commander", name, "brackets", len(brackets), "distinct", len(order), "failed", failed)
	return results
}
