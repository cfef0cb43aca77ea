package extract

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/deckscope/jsonvalue"
	"github.com/use-agent/deckscope/models"
)

// DefaultMaxTags caps tag lists when the caller passes no limit.
const DefaultMaxTags = 20

// MaxTagLength is the longest tag name kept, in characters.
const MaxTagLength = 64

var (
	reTagsHeading   = regexp.MustCompile(`(?i)\btags\b`)
	reTagHref       = regexp.MustCompile(`(?i)/(?:tags|themes)/[a-z0-9\-]+(?:/[a-z0-9\-]+)?`)
	reOrdinalPrefix = regexp.MustCompile(`^\d+\.\s*`)
	reCountSuffix   = regexp.MustCompile(`\s+\(\d[\d,]*\)$`)
	reParenCount    = regexp.MustCompile(`^(.+?)\s+\((\d[\d,]*)\)$`)
	reBareCount     = regexp.MustCompile(`^(.+?)\s+(\d[\d,]*)$`)
)

// tagCountKeys is the priority order for popularity counts in JSON items.
var tagCountKeys = []string{"deckCount", "deck_count", "numDecks", "count"}

// structuralTags are page-chrome headings that show up next to real themes.
var structuralTags = map[string]struct{}{
	"themes":             {},
	"kindred":            {},
	"new cards":          {},
	"high synergy":       {},
	"high synergy cards": {},
	"top cards":          {},
	"game changers":      {},
	"card types":         {},
	"creatures":          {},
	"spells":             {},
	"enchantments":       {},
	"artifacts":          {},
	"instants":           {},
	"sorceries":          {},
	"planeswalkers":      {},
	"battles":            {},
	"lands":              {},
	"utility lands":      {},
	"mana artifacts":     {},
	"utility artifacts":  {},
}

// IsStructuralTag reports whether name is a navigation label rather than a theme.
func IsStructuralTag(name string) bool {
	_, ok := structuralTags[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// NormalizeTagName strips list numbering and count suffixes, trims, and caps
// the name at MaxTagLength characters. ok is false for empty results.
func NormalizeTagName(name string) (string, bool) {
	s := strings.TrimSpace(name)
	s = reOrdinalPrefix.ReplaceAllString(s, "")
	s = reCountSuffix.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) > MaxTagLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxTagLength]))
	}
	return s, s != ""
}

// SplitTagLabel splits a rendered label into name and count. "Tokens (482)"
// and "Tokens 482" both carry a count; anything else is all name.
func SplitTagLabel(label string) (name string, count *int) {
	label = strings.TrimSpace(label)
	for _, re := range []*regexp.Regexp{reParenCount, reBareCount} {
		m := re.FindStringSubmatch(label)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(strings.ReplaceAll(m[2], ",", "")); err == nil {
			return strings.TrimSpace(m[1]), &n
		}
	}
	return label, nil
}

// TagsFromJSON reads tags from the commander payload. The modern
// panels.links section headed "Tags" wins; the legacy commander tagCloud
// is used only when that yields nothing.
func TagsFromJSON(payload *jsonvalue.Value) []models.CommanderTag {
	props := payload.Path("props", "pageProps")

	var tags []models.CommanderTag
	for _, section := range props.Path("data", "panels", "links").Items() {
		header, _ := section.Get("header").Str()
		if !reTagsHeading.MatchString(header) {
			continue
		}
		tags = append(tags, tagItems(section.Get("items"))...)
	}
	if len(tags) > 0 {
		return tags
	}
	return tagItems(props.Path("commander", "metadata", "tagCloud"))
}

func tagItems(list *jsonvalue.Value) []models.CommanderTag {
	var tags []models.CommanderTag
	for _, item := range list.Items() {
		name, ok := item.Get("name").Str()
		if !ok || strings.TrimSpace(name) == "" {
			continue
		}
		tag := models.CommanderTag{Name: name}
		for _, key := range tagCountKeys {
			if !item.Has(key) {
				continue
			}
			if n, ok := parseCount(item.Get(key)); ok {
				tag.DeckCount = &n
			}
			break
		}
		tags = append(tags, tag)
	}
	return tags
}

// tagCloudSelector matches the legacy tag-cloud div and the hashed
// CSS-module class names of the current layout.
const tagCloudSelector = `.tag-cloud, [class*="tag-cloud"], [class*="TagCloud"], [class*="tagCloud"]`

// TagsFromHTML reads tag links out of a rendered tag cloud.
func TagsFromHTML(rawHTML string) []models.CommanderTag {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil
	}

	var tags []models.CommanderTag
	doc.Find(tagCloudSelector).Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !reTagHref.MatchString(href) {
			return
		}
		name, count := SplitTagLabel(visibleText(s))
		if name == "" {
			return
		}
		tags = append(tags, models.CommanderTag{Name: name, DeckCount: count})
	})
	return tags
}

// visibleText joins the text nodes under s with single spaces, so a name
// and a count rendered in sibling spans stay separable.
func visibleText(s *goquery.Selection) string {
	var parts []string
	s.Contents().Each(func(_ int, c *goquery.Selection) {
		var text string
		if goquery.NodeName(c) == "#text" {
			text = c.Text()
		} else {
			text = visibleText(c)
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	})
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

// NormalizeTags normalizes, filters and deduplicates candidates in order,
// keeping at most max entries (DefaultMaxTags when max <= 0). A later
// duplicate may supply a count the first occurrence lacked.
func NormalizeTags(candidates []models.CommanderTag, max int) []models.CommanderTag {
	if max <= 0 {
		max = DefaultMaxTags
	}
	out := make([]models.CommanderTag, 0, len(candidates))
	pos := make(map[string]int, len(candidates))
	for _, c := range candidates {
		name, ok := NormalizeTagName(c.Name)
		if !ok || IsStructuralTag(name) {
			continue
		}
		key := strings.ToLower(name)
		if i, dup := pos[key]; dup {
			if out[i].DeckCount == nil && c.DeckCount != nil {
				n := *c.DeckCount
				out[i].DeckCount = &n
			}
			continue
		}
		tag := models.CommanderTag{Name: name}
		if c.DeckCount != nil {
			n := *c.DeckCount
			tag.DeckCount = &n
		}
		pos[key] = len(out)
		out = append(out, tag)
	}
	if len(out) > max {
		out = out[:max]
	}
	return out
}

// ExtractTags runs both the JSON and HTML paths and normalizes the union.
// Either input may be empty.
func ExtractTags(payload *jsonvalue.Value, rawHTML string, max int) []models.CommanderTag {
	var candidates []models.CommanderTag
	if payload != nil {
		candidates = append(candidates, TagsFromJSON(payload)...)
	}
	if rawHTML != "" {
		candidates = append(candidates, TagsFromHTML(rawHTML)...)
	}
	return NormalizeTags(candidates, max)
}
