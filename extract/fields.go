package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/use-agent/deckscope/jsonvalue"
)

// reQuantityPrefixed matches list annotations such as "2 Forest". They are
// deck-list lines, never card names.
var reQuantityPrefixed = regexp.MustCompile(`^\d+\s+[A-Za-z]`)

// IsQuantityPrefixed reports whether s looks like "<count> <name>".
func IsQuantityPrefixed(s string) bool {
	return reQuantityPrefixed.MatchString(strings.TrimSpace(s))
}

// nameKeys is the priority order for object names. Blank values fall
// through to the next key; a quantity-prefixed value rejects the entry.
var nameKeys = []string{"name", "cardName", "label", "sortname"}

// facesOf returns the non-blank face names of a multi-faced entry's
// "names" value. Every element must be a string.
func facesOf(arr *jsonvalue.Value) ([]string, bool) {
	if arr.Kind() != jsonvalue.Array || arr.Len() == 0 {
		return nil, false
	}
	var faces []string
	for _, item := range arr.Items() {
		s, ok := item.Str()
		if !ok {
			return nil, false
		}
		if s = strings.TrimSpace(s); s != "" {
			faces = append(faces, s)
		}
	}
	return faces, len(faces) > 0
}

// CardName resolves the display name of a raw card entry: a bare string or
// an object. Object keys are read through lookup, so a nested card object
// overrides the entry exactly as it does for quantity and commander flags.
// ok is false when no usable name exists.
func CardName(entry *jsonvalue.Value) (string, bool) {
	switch entry.Kind() {
	case jsonvalue.String:
		s, _ := entry.Str()
		return usableName(s)
	case jsonvalue.Object:
		for _, key := range nameKeys {
			s, ok := lookup(entry, key).Str()
			if !ok {
				continue
			}
			if s = strings.TrimSpace(s); s == "" {
				continue
			}
			return usableName(s)
		}
		if faces, ok := facesOf(lookup(entry, "names")); ok {
			return strings.Join(faces, " // "), true
		}
	}
	return "", false
}

func usableName(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" || reQuantityPrefixed.MatchString(s) {
		return "", false
	}
	return s, true
}

// lookup returns key from the nested card object first, then from the entry.
func lookup(entry *jsonvalue.Value, key string) *jsonvalue.Value {
	if card := entry.Get("card"); card.Kind() == jsonvalue.Object && card.Has(key) {
		return card.Get(key)
	}
	return entry.Get(key)
}

// coerceInt turns numbers and numeric strings into an int. Booleans and
// anything non-numeric are rejected.
func coerceInt(v *jsonvalue.Value) (int, bool) {
	switch v.Kind() {
	case jsonvalue.Number:
		f, ok := v.Float()
		if !ok || math.Abs(f) > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	case jsonvalue.String:
		s, _ := v.Str()
		s = strings.TrimSpace(s)
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && math.Abs(f) <= math.MaxInt32 {
			return int(f), true
		}
	}
	return 0, false
}

// parseCount reads a popularity count: non-negative numbers, or the first
// digit run of a string such as "1,234 decks".
func parseCount(v *jsonvalue.Value) (int, bool) {
	switch v.Kind() {
	case jsonvalue.Number:
		f, ok := v.Float()
		if !ok || f < 0 || f > math.MaxInt32 {
			return 0, false
		}
		return int(f), true
	case jsonvalue.String:
		s, _ := v.Str()
		return parseDigits(strings.ReplaceAll(s, ",", ""))
	}
	return 0, false
}

var reDigits = regexp.MustCompile(`\d+`)

func parseDigits(s string) (int, bool) {
	m := reDigits.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return n, true
}
