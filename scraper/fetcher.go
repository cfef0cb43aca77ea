package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/use-agent/deckscope/models"
)

// maxBody caps how much of a page is read. Larger pages fail instead of
// being cut short.
const maxBody = 10 << 20

// PageFetcher retrieves the HTML of one page.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// FetcherOptions configures a Fetcher. Zero values take the defaults below.
type FetcherOptions struct {
	RequestTimeout time.Duration // default 12s
	DialTimeout    time.Duration // default 10s
	MaxRetries     int           // additional attempts, default 2; negative disables retries
	RetryBaseDelay time.Duration // default 250ms
	UserAgent      string

	// Transport replaces the Chrome-fingerprint transport. Tests use it.
	Transport http.RoundTripper
}

// Fetcher performs GETs with linear-backoff retries and classifies every
// failure into a models.Kind.
type Fetcher struct {
	client     *resty.Client
	maxRetries int
	baseDelay  time.Duration
}

// NewFetcher builds a Fetcher from opts.
func NewFetcher(opts FetcherOptions) *Fetcher {
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 12 * time.Second
	}
	if opts.DialTimeout <= 0 {
		opts.DialTimeout = 10 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 2
	} else if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.RetryBaseDelay <= 0 {
		opts.RetryBaseDelay = 250 * time.Millisecond
	}
	if opts.UserAgent == "" {
		opts.UserAgent = chromeUA
	}

	var transport http.RoundTripper = opts.Transport
	if transport == nil {
		transport = newChromeTransport(opts.DialTimeout)
	}

	client := resty.New()
	client.SetTransport(transport)
	client.SetTimeout(opts.RequestTimeout)
	client.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	client.SetHeader("User-Agent", opts.UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	client.SetHeader("Accept-Language", "en-US,en;q=0.9")
	client.SetDoNotParseResponse(true)

	return &Fetcher{
		client:     client,
		maxRetries: opts.MaxRetries,
		baseDelay:  opts.RetryBaseDelay,
	}
}

// Fetch returns the body of url. Transport failures and 5xx responses are
// retried up to MaxRetries more times, waiting base×attempt before each
// retry. A 404 fails at once with KindNotFound.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= f.maxRetries; attempt++ {
		if attempt > 0 {
			wait := f.baseDelay * time.Duration(attempt)
			slog.Warn("retrying fetch", "url", url, "attempt", attempt, "wait", wait, "error", lastErr)
			select {
			case <-ctx.Done():
				return "", classifyTransport(ctx.Err(), url)
			case <-time.After(wait):
			}
		}

		body, err := f.once(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !models.KindOf(err).Retryable() || ctx.Err() != nil {
			return "", err
		}
	}
	return "", lastErr
}

func (f *Fetcher) once(ctx context.Context, url string) (string, error) {
	res, err := f.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return "", classifyTransport(err, url)
	}
	raw := res.RawBody()
	defer raw.Close()

	status := res.StatusCode()
	switch {
	case status == http.StatusNotFound:
		return "", models.NewStatusError(models.KindNotFound, url, status)
	case status >= 500:
		return "", models.NewStatusError(models.KindServerError, url, status)
	case status < 200 || status >= 300:
		return "", models.NewStatusError(models.KindUnexpectedStatus, url, status)
	}

	body, err := io.ReadAll(io.LimitReader(raw, maxBody+1))
	if err != nil {
		return "", classifyTransport(fmt.Errorf("read body: %w", err), url)
	}
	if len(body) > maxBody {
		return "", &models.ExtractError{
			Kind:    models.KindUnexpectedStatus,
			Message: "page too large",
			URL:     url,
			Details: fmt.Sprintf("body exceeds %d bytes", maxBody),
			Status:  status,
		}
	}
	return string(body), nil
}

func classifyTransport(err error, url string) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return models.NewError(models.KindTimeout, "upstream request timed out", url, err)
	}
	return models.NewError(models.KindNetwork, "upstream request failed", url, err)
}
