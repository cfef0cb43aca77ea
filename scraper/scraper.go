package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/use-agent/deckscope/bracket"
	"github.com/use-agent/deckscope/cache"
	"github.com/use-agent/deckscope/extract"
	"github.com/use-agent/deckscope/jsonvalue"
	"github.com/use-agent/deckscope/models"
)

// Options configures a Scraper.
type Options struct {
	// BaseURL is the site root every path is resolved against.
	BaseURL string

	// DefaultBracket is used when a deck request names none.
	DefaultBracket string

	// MaxTags caps tag lists when the caller passes no limit.
	MaxTags int
}

// Scraper runs the fetch → locate → extract pipeline for commander, deck
// and theme pages. It is safe for concurrent use.
type Scraper struct {
	fetcher        PageFetcher
	cache          *cache.Cache
	baseURL        string
	baseHost       string
	defaultBracket string
	maxTags        int
	startTime      time.Time
}

// New creates a Scraper. c may be nil to disable caching.
func New(fetcher PageFetcher, c *cache.Cache, opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://edhrec.com"
	}
	if opts.DefaultBracket == "" {
		opts.DefaultBracket = bracket.Upgraded
	}
	if opts.MaxTags <= 0 {
		opts.MaxTags = extract.DefaultMaxTags
	}
	var baseHost string
	if u, err := url.Parse(opts.BaseURL); err == nil {
		baseHost = u.Host
	}
	return &Scraper{
		fetcher:        fetcher,
		cache:          c,
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		baseHost:       baseHost,
		defaultBracket: opts.DefaultBracket,
		maxTags:        opts.MaxTags,
		startTime:      time.Now(),
	}
}

// Uptime reports how long the scraper has existed.
func (s *Scraper) Uptime() time.Duration { return time.Since(s.startTime) }

// CacheEntries reports the number of cached decks.
func (s *Scraper) CacheEntries() int {
	if s.cache == nil {
		return 0
	}
	return s.cache.Len()
}

// CacheEnabled reports whether deck results are cached.
func (s *Scraper) CacheEnabled() bool { return s.cache != nil }

// resolve turns a site-relative path into an absolute URL.
func (s *Scraper) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return s.baseURL + "/" + strings.TrimLeft(path, "/")
}

func requireName(name, what string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", models.NewError(models.KindInvalidInput, what+" is required", "", nil)
	}
	return name, nil
}

// Discover fetches the commander page and picks the average-deck page for
// the requested bracket. It fails with KindNotFound when the commander has
// no average-deck pages.
func (s *Scraper) Discover(ctx context.Context, name, requested string) (models.DiscoveryResult, error) {
	name, err := requireName(name, "commander name")
	if err != nil {
		return models.DiscoveryResult{}, err
	}
	slug := CommanderSlug(name)
	if slug == "" {
		return models.DiscoveryResult{}, models.NewError(models.KindInvalidInput, "commander name has no usable characters", "", nil)
	}

	pageURL := s.resolve("/commanders/" + slug)
	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return models.DiscoveryResult{}, err
	}

	res, ok := bracket.Discover(html, slug, requested)
	if !ok {
		return res, &models.ExtractError{
			Kind:    models.KindNotFound,
			Message: "commander has no average-deck pages",
			URL:     pageURL,
			Details: "no /average-decks/ links on the commander page",
		}
	}
	res.URL = s.resolve(res.URL)
	if res.Approximate {
		slog.Info("bracket not offered, using first average deck",
			"commander", name, "requested", requested, "url", res.URL, "available", res.AvailableBrackets)
	}
	return res, nil
}

// AverageDeck extracts the average deck for a commander and bracket, or
// for a direct SourceURL. cached reports whether the result came from the
// cache.
func (s *Scraper) AverageDeck(ctx context.Context, req models.AverageDeckRequest) (res *models.AverageDeckResult, cached bool, err error) {
	name := strings.TrimSpace(req.Commander)
	source := strings.TrimSpace(req.SourceURL)
	if name == "" && source == "" {
		return nil, false, models.NewError(models.KindInvalidInput, "commander name or source url is required", "", nil)
	}

	requested := strings.TrimSpace(req.Bracket)
	if requested == "" && source == "" {
		requested = s.defaultBracket
	}
	normalized := bracket.Normalize(requested)

	var key string
	if source != "" {
		if u, perr := url.Parse(source); perr != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, false, models.NewError(models.KindInvalidInput, "source url must be an absolute http(s) url", source, perr)
		} else if !strings.EqualFold(u.Host, s.baseHost) {
			return nil, false, &models.ExtractError{
				Kind:    models.KindInvalidInput,
				Message: "source url must point at the configured site",
				URL:     source,
				Details: "allowed host: " + s.baseHost,
			}
		}
		key = cache.Key(source, normalized)
	} else {
		key = cache.Key(CommanderSlug(name), normalized)
	}

	if s.cache != nil {
		if hit, ok := s.cache.Get(key); ok {
			slog.Debug("average deck cache hit", "key", key)
			return hit, true, nil
		}
	}

	result := &models.AverageDeckResult{Bracket: requested}
	pageURL := source
	if pageURL == "" {
		discovery, err := s.Discover(ctx, name, requested)
		if err != nil {
			return nil, false, err
		}
		pageURL = discovery.URL
		result.AvailableBrackets = discovery.AvailableBrackets
		result.Approximate = discovery.Approximate
	}
	result.SourceURL = pageURL

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, false, err
	}
	payload, err := LocatePayload(html, pageURL)
	if err != nil {
		return nil, false, err
	}

	entries, found := extract.FindCardLists(payload.Path("props", "pageProps"))
	if !found {
		entries, found = extract.FindCardLists(payload)
	}
	if !found {
		return nil, false, models.NewParsingError("could not find card lists in deck page", pageURL,
			"no array of card-like entries under props.pageProps or anywhere in the payload")
	}

	commander, coCommanders, deck := extract.SplitCommander(extract.NormalizeCards(entries))
	result.DeckCards = deck
	result.CommanderCard = commander
	result.CoCommanders = coCommanders
	result.CommanderName = name
	if result.CommanderName == "" && commander != nil {
		result.CommanderName = commander.Name
	}
	if result.DeckCards == nil {
		result.DeckCards = []models.NormalizedCard{}
	}

	slog.Info("average deck extracted",
		"commander", result.CommanderName, "bracket", requested, "url", pageURL,
		"cards", len(result.DeckCards), "approximate", result.Approximate)

	if s.cache != nil {
		s.cache.Set(key, result)
	}
	return result, false, nil
}

// CommanderSummary extracts tags, card sections and the build id from a
// commander page. budget may be "", "budget" or "expensive". max <= 0
// uses the configured cap.
func (s *Scraper) CommanderSummary(ctx context.Context, name, budget string, max int) (*models.CommanderSummary, error) {
	name, err := requireName(name, "commander name")
	if err != nil {
		return nil, err
	}
	budget = strings.ToLower(strings.TrimSpace(budget))
	if budget != "" && budget != bracket.Budget && budget != bracket.Expensive {
		return nil, models.NewError(models.KindInvalidInput, "budget must be budget or expensive", "", nil)
	}
	if max <= 0 {
		max = s.maxTags
	}

	slug := CommanderSlug(name)
	path := "/commanders/" + slug
	if budget != "" {
		path += "/" + budget
	}
	pageURL := s.resolve(path)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}

	// Either source may carry the tags, so a missing payload is only fatal
	// when the markup has none either.
	payload, perr := LocatePayload(html, pageURL)
	if perr != nil {
		slog.Debug("commander page without payload", "url", pageURL, "error", perr)
	}
	tags := extract.ExtractTags(payload, html, max)
	if payload == nil && len(tags) == 0 {
		return nil, perr
	}

	return &models.CommanderSummary{
		Commander: name,
		Slug:      slug,
		SourceURL: pageURL,
		Budget:    budget,
		BuildID:   BuildID(html),
		Tags:      tags,
		Sections:  extract.ExtractSections(payload),
	}, nil
}

// TagTheme extracts the card list of a theme page, optionally narrowed to
// a color identity such as "wubg".
func (s *Scraper) TagTheme(ctx context.Context, tag, colors string) (*models.ThemeResult, error) {
	tag, err := requireName(tag, "tag")
	if err != nil {
		return nil, err
	}
	slug := ThemeSlug(tag)
	if slug == "" {
		return nil, models.NewError(models.KindInvalidInput, "tag has no usable characters", "", nil)
	}
	path := "/tags/" + slug
	if colors = strings.ToLower(strings.TrimSpace(colors)); colors != "" {
		path += "/" + colors
	}
	pageURL := s.resolve(path)

	html, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	payload, err := LocatePayload(html, pageURL)
	if err != nil {
		return nil, err
	}

	cards := extract.ExtractThemeCards(payload)
	if cards == nil {
		cards = []models.ThemeCard{}
	}
	header, description := themeMeta(payload, html)
	if header == "" {
		header = strings.ToUpper(slug[:1]) + slug[1:] + " | EDHREC"
	}
	if description == "" {
		description = "Popular " + slug + " cards for Commander"
	}
	return &models.ThemeResult{
		Theme:       slug,
		Header:      header,
		Description: description,
		SourceURL:   pageURL,
		Cards:       cards,
	}, nil
}

// themeMeta reads the page header from the payload, falling back to the
// document title, and the meta description.
func themeMeta(payload *jsonvalue.Value, html string) (header, description string) {
	header, _ = payload.Path("props", "pageProps", "data", "header").Str()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(header), ""
	}
	if strings.TrimSpace(header) == "" {
		header = doc.Find("title").First().Text()
	}
	description, _ = doc.Find(`meta[name="description"]`).First().Attr("content")
	return strings.TrimSpace(header), strings.TrimSpace(description)
}

// BudgetComparison fetches the budget and expensive exhibition decks of a
// commander and diffs them.
func (s *Scraper) BudgetComparison(ctx context.Context, name string) (*models.BudgetComparison, error) {
	name, err := requireName(name, "commander name")
	if err != nil {
		return nil, err
	}
	budget, _, err := s.AverageDeck(ctx, models.AverageDeckRequest{Commander: name, Bracket: bracket.Exhibition + "/" + bracket.Budget})
	if err != nil {
		return nil, err
	}
	expensive, _, err := s.AverageDeck(ctx, models.AverageDeckRequest{Commander: name, Bracket: bracket.Exhibition + "/" + bracket.Expensive})
	if err != nil {
		return nil, err
	}
	return &models.BudgetComparison{
		Commander: name,
		Budget:    budget,
		Expensive: expensive,
		Diff:      extract.CompareDecks(budget.DeckCards, expensive.DeckCards),
	}, nil
}

// CompareBrackets fetches the average decks of two brackets of a commander
// and diffs them, first against second.
func (s *Scraper) CompareBrackets(ctx context.Context, name, first, second string) (*models.BracketComparison, error) {
	name, err := requireName(name, "commander name")
	if err != nil {
		return nil, err
	}
	if first, err = requireName(first, "first bracket"); err != nil {
		return nil, err
	}
	if second, err = requireName(second, "second bracket"); err != nil {
		return nil, err
	}
	firstDeck, _, err := s.AverageDeck(ctx, models.AverageDeckRequest{Commander: name, Bracket: first})
	if err != nil {
		return nil, err
	}
	secondDeck, _, err := s.AverageDeck(ctx, models.AverageDeckRequest{Commander: name, Bracket: second})
	if err != nil {
		return nil, err
	}
	return &models.BracketComparison{
		Commander: name,
		First:     firstDeck,
		Second:    secondDeck,
		Diff:      extract.CompareDecks(firstDeck.DeckCards, secondDeck.DeckCards),
	}, nil
}
