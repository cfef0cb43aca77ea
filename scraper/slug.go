package scraper

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var reNonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// CommanderSlug turns a card name into the site's URL slug:
// "Atraxa, Praetors' Voice" is "atraxa-praetors-voice". Only the front
// face of a multi-faced name is used and accents are folded to ASCII.
func CommanderSlug(name string) string {
	if front, _, ok := strings.Cut(name, "//"); ok {
		name = front
	}
	folded, _, err := transform.String(
		transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
		name,
	)
	if err != nil {
		folded = name
	}
	s := strings.ToLower(strings.TrimSpace(folded))
	s = strings.NewReplacer("'", "", "’", "").Replace(s)
	s = reNonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ThemeSlug turns a tag display name into its path segment.
func ThemeSlug(tag string) string {
	s := strings.ReplaceAll(tag, "+1/+1", "p1-p1")
	s = strings.ReplaceAll(s, "-1/-1", "m1-m1")
	return CommanderSlug(s)
}
