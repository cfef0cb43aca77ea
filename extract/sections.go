package extract

import (
	"strings"
	"unicode"

	"github.com/use-agent/deckscope/jsonvalue"
	"github.com/use-agent/deckscope/models"
)

// Canonical section names reported in commander summaries.
const (
	SectionHighSynergy  = "High Synergy Cards"
	SectionTopCards     = "Top Cards"
	SectionGameChangers = "Game Changers"
)

// sectionAliases maps squashed header keys to canonical section names.
var sectionAliases = map[string]string{
	"highsynergy":      SectionHighSynergy,
	"highsynergycards": SectionHighSynergy,
	"synergycards":     SectionHighSynergy,
	"topcards":         SectionTopCards,
	"popularcards":     SectionTopCards,
	"gamechangers":     SectionGameChangers,
	"gamechanger":      SectionGameChangers,
}

// sectionListKeys are the member names a card list may hide under.
var sectionListKeys = []string{"cardviews", "cards", "items"}

func squash(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func cardLists(payload *jsonvalue.Value) []*jsonvalue.Value {
	return payload.Path("props", "pageProps", "data", "container", "json_dict", "cardlists").Items()
}

// ExtractSections returns the card names of the well-known commander page
// sections, keyed by canonical section name. Unknown sections are skipped.
func ExtractSections(payload *jsonvalue.Value) map[string][]string {
	sections := make(map[string][]string)
	for _, list := range cardLists(payload) {
		header, _ := list.Get("header").Str()
		name, ok := sectionAliases[squash(header)]
		if !ok {
			continue
		}
		var names []string
		for _, key := range sectionListKeys {
			for _, entry := range list.Get(key).Items() {
				if n, ok := CardName(entry); ok {
					names = append(names, n)
				}
			}
		}
		sections[name] = append(sections[name], names...)
	}
	return sections
}

// ExtractThemeCards reads the card lists of a theme page. Every list whose
// header mentions cards contributes, in page order, without duplicates.
func ExtractThemeCards(payload *jsonvalue.Value) []models.ThemeCard {
	var cards []models.ThemeCard
	seen := make(map[string]struct{})
	for _, list := range cardLists(payload) {
		header, _ := list.Get("header").Str()
		if !strings.Contains(strings.ToLower(header), "card") {
			continue
		}
		for _, key := range sectionListKeys {
			for _, entry := range list.Get(key).Items() {
				name, ok := CardName(entry)
				if !ok {
					continue
				}
				k := strings.ToLower(name)
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				card := models.ThemeCard{Name: name}
				card.Percent, _ = lookup(entry, "percent").Float()
				card.Synergy, _ = lookup(entry, "synergy").Float()
				cards = append(cards, card)
			}
		}
	}
	return cards
}
