package scraper

import (
	"log/slog"

	"github.com/use-agent/deckscope/cache"
	"github.com/use-agent/deckscope/config"
)

// NewFromConfig wires a Fetcher, an optional deck cache and a Scraper from
// cfg. Call Close when done to stop the cache's cleanup goroutine.
func NewFromConfig(cfg *config.Config) *Scraper {
	fetcher := NewFetcher(FetcherOptions{
		RequestTimeout: cfg.Scraper.RequestTimeout,
		DialTimeout:    cfg.Scraper.DialTimeout,
		MaxRetries:     cfg.Scraper.MaxRetries,
		RetryBaseDelay: cfg.Scraper.RetryBaseDelay,
		UserAgent:      cfg.Scraper.UserAgent,
	})

	var c *cache.Cache
	if cfg.Cache.Enabled {
		c = cache.New(cfg.Cache.TTL, cfg.Cache.MaxEntries, cache.WithCleanupInterval(cfg.Cache.CleanupInterval))
	}

	slog.Debug("scraper configured",
		"base_url", cfg.Scraper.BaseURL,
		"default_bracket", cfg.Scraper.DefaultBracket,
		"cache", cfg.Cache.Enabled,
	)
	return New(fetcher, c, Options{
		BaseURL:        cfg.Scraper.BaseURL,
		DefaultBracket: cfg.Scraper.DefaultBracket,
		MaxTags:        cfg.Scraper.MaxTags,
	})
}

// Close releases background resources. It is safe to call more than once.
func (s *Scraper) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}
