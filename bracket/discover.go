package bracket

import (
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/deckscope/models"
)

// reAverageDeckLink matches an average-deck path: the commander slug plus up
// to two bracket segments.
var reAverageDeckLink = regexp.MustCompile(`/average-decks/([a-z0-9-]+)((?:/[a-z0-9-]+){0,2})`)

// Link is one average-deck page offered by a commander page.
type Link struct {
	Path    string // site-relative, e.g. /average-decks/atraxa-praetors-voice/core
	Slug    string
	Bracket string // implied bracket token, All when the path has no segment
}

// Links enumerates average-deck links in page order without duplicates.
// Anchors come first, then any further paths mentioned in the raw markup
// (the embedded page state often lists brackets the navigation omits).
func Links(pageHTML string) []Link {
	var candidates []string
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML)); err == nil {
		doc.Find(`a[href*="/average-decks/"]`).Each(func(_ int, s *goquery.Selection) {
			href, _ := s.Attr("href")
			candidates = append(candidates, strings.ToLower(href))
		})
	}
	candidates = append(candidates, reAverageDeckLink.FindAllString(pageHTML, -1)...)

	var links []Link
	seen := make(map[string]struct{})
	for _, c := range candidates {
		m := reAverageDeckLink.FindStringSubmatch(c)
		if m == nil {
			continue
		}
		path := m[0]
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		links = append(links, Link{Path: path, Slug: m[1], Bracket: implied(m[2])})
	}
	return links
}

func implied(segments string) string {
	segments = strings.Trim(segments, "/")
	if segments == "" {
		return All
	}
	return Normalize(segments)
}

// Discover picks the average-deck page for requested among the links of a
// commander page. Links for slug are preferred when the page also links
// other commanders. With no exact match the first link is returned and
// the result is marked Approximate. ok is false when the page offers no
// average-deck links at all.
func Discover(pageHTML, slug, requested string) (models.DiscoveryResult, bool) {
	links := Links(pageHTML)
	var own []Link
	for _, l := range links {
		if l.Slug == slug {
			own = append(own, l)
		}
	}
	if len(own) > 0 {
		links = own
	}
	if len(links) == 0 {
		return models.DiscoveryResult{AvailableBrackets: []string{}}, false
	}

	want := Normalize(requested)
	if want == "" {
		want = All
	}

	set := make(map[string]struct{}, len(links))
	for _, l := range links {
		set[l.Bracket] = struct{}{}
	}
	available := make([]string, 0, len(set))
	for b := range set {
		available = append(available, b)
	}
	sort.Strings(available)

	res := models.DiscoveryResult{AvailableBrackets: available}
	for _, l := range links {
		if l.Bracket == want {
			res.URL = l.Path
			return res, true
		}
	}
	res.URL = links[0].Path
	res.Approximate = true
	return res, true
}
