package extract

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/use-agent/deckscope/jsonvalue"
	"github.com/use-agent/deckscope/models"
)

func mustParse(t *testing.T, s string) *jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(s))
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return v
}

func TestNormalizeCards_MergesCaseInsensitiveDuplicates(t *testing.T) {
	entries := mustParse(t, `[
		"2 Forest",
		{"name": "Sol Ring", "qty": 1},
		{"name": "sol ring", "qty": 1, "isCommander": false}
	]`).Items()

	got := NormalizeCards(entries)
	want := []models.NormalizedCard{{Name: "Sol Ring", Quantity: 2}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeCards mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCards_CommanderFlagIsOrMerged(t *testing.T) {
	entries := mustParse(t, `[
		{"name": "Atraxa, Praetors' Voice", "is_commander": false},
		{"name": "ATRAXA, PRAETORS' VOICE", "commander": true},
		{"name": "Forest", "quantity": "3"}
	]`).Items()

	got := NormalizeCards(entries)
	want := []models.NormalizedCard{
		{Name: "Atraxa, Praetors' Voice", Quantity: 2, IsCommander: true},
		{Name: "Forest", Quantity: 3},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NormalizeCards mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalizeCard(t *testing.T) {
	tests := []struct {
		name  string
		entry string
		want  models.NormalizedCard
		ok    bool
	}{
		{"bare string", `"Counterspell"`, models.NormalizedCard{Name: "Counterspell", Quantity: 1}, true},
		{"trimmed string", `"  Opt  "`, models.NormalizedCard{Name: "Opt", Quantity: 1}, true},
		{"quantity prefixed string", `"10 Island"`, models.NormalizedCard{}, false},
		{"empty string", `"   "`, models.NormalizedCard{}, false},
		{"number", `42`, models.NormalizedCard{}, false},
		{"no name", `{"qty": 3, "id": "abc"}`, models.NormalizedCard{}, false},
		{"quantity prefixed name", `{"name": "4 Swamp"}`, models.NormalizedCard{}, false},
		{"cardName key", `{"cardName": "Brainstorm", "count": 2}`, models.NormalizedCard{Name: "Brainstorm", Quantity: 2}, true},
		{"label key", `{"label": "Ponder", "copies": 1.9}`, models.NormalizedCard{Name: "Ponder", Quantity: 1}, true},
		{"sortname key", `{"sortname": "Preordain", "amount": "4"}`, models.NormalizedCard{Name: "Preordain", Quantity: 4}, true},
		{"nested card", `{"card": {"name": "Mana Crypt", "qty": 1}, "q": 5}`, models.NormalizedCard{Name: "Mana Crypt", Quantity: 1}, true},
		{"nested name wins over outer", `{"name": "Outer", "card": {"name": "Inner", "qty": 3}}`, models.NormalizedCard{Name: "Inner", Quantity: 3}, true},
		{"blank nested name uses outer", `{"name": "Outer", "card": {"cardName": "  "}}`, models.NormalizedCard{Name: "Outer", Quantity: 1}, true},
		{"blank name falls through", `{"name": "", "cardName": "Sol Ring"}`, models.NormalizedCard{Name: "Sol Ring", Quantity: 1}, true},
		{"blank name uses faces", `{"name": " ", "names": ["Fire", "Ice"]}`, models.NormalizedCard{Name: "Fire // Ice", Quantity: 1}, true},
		{"nested faces", `{"card": {"names": ["Wear", "Tear"]}}`, models.NormalizedCard{Name: "Wear // Tear", Quantity: 1}, true},
		{"quantity prefixed after blank", `{"name": "", "label": "2 Forest"}`, models.NormalizedCard{}, false},
		{"nested commander flag", `{"card": {"name": "Tymna the Weaver", "isCommander": true}}`, models.NormalizedCard{Name: "Tymna the Weaver", Quantity: 1, IsCommander: true}, true},
		{"multi faced", `{"names": ["Delver of Secrets", "Insectile Aberration"]}`, models.NormalizedCard{Name: "Delver of Secrets // Insectile Aberration", Quantity: 1}, true},
		{"zero quantity floors to one", `{"name": "Sol Ring", "qty": 0}`, models.NormalizedCard{Name: "Sol Ring", Quantity: 1}, true},
		{"negative quantity floors to one", `{"name": "Sol Ring", "qty": -3}`, models.NormalizedCard{Name: "Sol Ring", Quantity: 1}, true},
		{"boolean quantity ignored", `{"name": "Sol Ring", "qty": true, "count": 2}`, models.NormalizedCard{Name: "Sol Ring", Quantity: 2}, true},
		{"junk quantity defaults", `{"name": "Sol Ring", "qty": "many"}`, models.NormalizedCard{Name: "Sol Ring", Quantity: 1}, true},
		{"string commander flag ignored", `{"name": "Sol Ring", "isCommander": "true"}`, models.NormalizedCard{Name: "Sol Ring", Quantity: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeCard(mustParse(t, tt.entry))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("NormalizeCard mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeCards_DropsNamelessEntries(t *testing.T) {
	entries := mustParse(t, `[{"qty": 2}, {"name": ""}, {"name": "Island"}, null, 7]`).Items()
	got := NormalizeCards(entries)
	if len(got) != 1 || got[0].Name != "Island" {
		t.Errorf("got %+v, want only Island", got)
	}
}

func TestSplitCommander(t *testing.T) {
	cards := []models.NormalizedCard{
		{Name: "Sol Ring", Quantity: 1},
		{Name: "Kraum, Ludevic's Opus", Quantity: 1, IsCommander: true},
		{Name: "Island", Quantity: 10},
		{Name: "Tymna the Weaver", Quantity: 1, IsCommander: true},
	}

	commander, co, deck := SplitCommander(cards)
	if commander == nil || commander.Name != "Kraum, Ludevic's Opus" {
		t.Fatalf("commander = %+v", commander)
	}
	if diff := cmp.Diff([]models.NormalizedCard{{Name: "Tymna the Weaver", Quantity: 1, IsCommander: true}}, co); diff != "" {
		t.Errorf("co-commanders mismatch (-want +got):\n%s", diff)
	}
	wantDeck := []models.NormalizedCard{{Name: "Sol Ring", Quantity: 1}, {Name: "Island", Quantity: 10}}
	if diff := cmp.Diff(wantDeck, deck); diff != "" {
		t.Errorf("deck mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitCommander_NoCommander(t *testing.T) {
	commander, co, deck := SplitCommander([]models.NormalizedCard{{Name: "Island", Quantity: 1}})
	if commander != nil || co != nil {
		t.Errorf("expected no commanders, got %+v %+v", commander, co)
	}
	if len(deck) != 1 {
		t.Errorf("deck = %+v", deck)
	}
}

func TestCompareDecks(t *testing.T) {
	first := []models.NormalizedCard{
		{Name: "Sol Ring", Quantity: 1},
		{Name: "Island", Quantity: 10},
		{Name: "Opt", Quantity: 1},
	}
	second := []models.NormalizedCard{
		{Name: "island", Quantity: 8},
		{Name: "Sol Ring", Quantity: 1},
		{Name: "Mana Crypt", Quantity: 1},
	}

	got := CompareDecks(first, second)
	want := models.DeckDiff{
		OnlyInFirst:     []models.NormalizedCard{{Name: "Opt", Quantity: 1}},
		OnlyInSecond:    []models.NormalizedCard{{Name: "Mana Crypt", Quantity: 1}},
		CommonCount:     2,
		QuantityChanges: []models.QuantityChange{{Name: "Island", First: 10, Second: 8}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CompareDecks mismatch (-want +got):\n%s", diff)
	}
}
