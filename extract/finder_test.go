package extract

import (
	"testing"

	"github.com/use-agent/deckscope/jsonvalue"
)

func names(t *testing.T, entries []*jsonvalue.Value) []string {
	t.Helper()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		n, ok := CardName(e)
		if !ok {
			t.Fatalf("FindCardLists returned an unnamed entry: %v", e.Kind())
		}
		out = append(out, n)
	}
	return out
}

func TestFindCardLists_NestedDeckPayload(t *testing.T) {
	payload := mustParse(t, `{
		"header": "Average Deck",
		"data": {
			"meta": {"colorIdentity": "WUBG", "deckCount": 1804},
			"deck": [
				{"name": "Atraxa, Praetors' Voice", "isCommander": true,
				 "printings": [{"name": "ONE"}, {"name": "C16"}]},
				{"name": "Sol Ring", "qty": 1},
				{"name": "Forest", "qty": 4}
			]
		}
	}`)

	entries, found := FindCardLists(payload)
	if !found {
		t.Fatal("expected a card list")
	}
	got := names(t, entries)
	want := []string{"Atraxa, Praetors' Voice", "Sol Ring", "Forest"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindCardLists_BlankNameFallsThrough(t *testing.T) {
	payload := mustParse(t, `{"cards": [{"name": "", "cardName": "Sol Ring"}, {"name": "Arcane Signet"}]}`)
	entries, found := FindCardLists(payload)
	if !found {
		t.Fatal("expected a card list")
	}
	got := names(t, entries)
	want := []string{"Sol Ring", "Arcane Signet"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindCardLists_ColorListIsCardLike(t *testing.T) {
	// A list of plain strings is indistinguishable from a list of card
	// names; discovery order decides what comes first.
	payload := mustParse(t, `{"colors": ["W", "U"], "cards": ["Opt"]}`)
	entries, found := FindCardLists(payload)
	if !found || len(entries) != 3 {
		t.Fatalf("found=%v entries=%d, want 3", found, len(entries))
	}
}

func TestFindCardLists_RejectsMixedArrays(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"quantity prefixed string", `{"deck": ["Sol Ring", "2 Forest", "Opt"]}`},
		{"quantity prefixed object name", `{"deck": [{"name": "Sol Ring"}, {"name": "3 Island"}]}`},
		{"number element", `{"deck": ["Sol Ring", 4]}`},
		{"nameless object", `{"deck": [{"name": "Sol Ring"}, {"id": 1}]}`},
		{"empty arrays only", `{"a": [], "b": {"c": []}}`},
		{"scalars only", `{"a": 1, "b": "Sol Ring", "c": true}`},
		{"blank names", `{"deck": [{"name": "  "}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, found := FindCardLists(mustParse(t, tt.payload))
			if found || len(entries) != 0 {
				t.Errorf("expected not found, got %d entries", len(entries))
			}
		})
	}
}

func TestFindCardLists_DescendsIntoDisqualifiedArrays(t *testing.T) {
	payload := mustParse(t, `{"sections": [
		{"header": "Creatures", "cards": [{"name": "Llanowar Elves"}]},
		{"header": "Lands", "cards": [{"name": "Forest"}, {"name": "Island"}]},
		3
	]}`)
	entries, found := FindCardLists(payload)
	if !found {
		t.Fatal("expected nested card lists")
	}
	got := names(t, entries)
	want := []string{"Llanowar Elves", "Forest", "Island"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFindCardLists_SharedArrayCountedOnce(t *testing.T) {
	shared := jsonvalue.NewArray(jsonvalue.NewString("Sol Ring"), jsonvalue.NewString("Opt"))
	root := jsonvalue.NewObject().
		Set("a", shared).
		Set("b", jsonvalue.NewObject().Set("again", shared))

	entries, found := FindCardLists(root)
	if !found || len(entries) != 2 {
		t.Errorf("found=%v entries=%d, want the shared list once", found, len(entries))
	}
}

func TestFindCardLists_SelfReferenceTerminates(t *testing.T) {
	inner := jsonvalue.NewArray(jsonvalue.NewNumber("1"))
	outer := jsonvalue.NewArray(inner, jsonvalue.NewNumber("2"))
	// Make the tree cyclic: the inner array contains its parent.
	cyclic := jsonvalue.NewArray(outer, jsonvalue.NewNumber("3"))
	*inner = *jsonvalue.NewArray(cyclic, jsonvalue.NewNumber("4"))

	if _, found := FindCardLists(cyclic); found {
		t.Error("numbers are never card-like")
	}
}

func TestIsQuantityPrefixed(t *testing.T) {
	tests := map[string]bool{
		"2 Forest":        true,
		"10 Island":       true,
		" 1  Sol Ring":    true,
		"1\tOpt":          true,
		"Forest":          false,
		"2":               false,
		"1/1 Tokens":      false,
		"3-Color Control": false,
		"+1/+1 Counters":  false,
		"Kozilek":         false,
	}
	for input, want := range tests {
		if got := IsQuantityPrefixed(input); got != want {
			t.Errorf("IsQuantityPrefixed(%q) = %v, want %v", input, got, want)
		}
		if want {
			if _, ok := CardName(jsonvalue.NewString(input)); ok {
				t.Errorf("CardName accepted quantity-prefixed %q", input)
			}
		}
	}
}
