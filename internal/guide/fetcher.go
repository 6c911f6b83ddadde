package guide

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/Digital-Shane/otr-tidy/internal/util"
	"github.com/PuerkitoBio/goquery"
)

const userAgent = "otr-tidy/1.0 (+https://github.com/Digital-Shane/otr-tidy)"

// Page is a fetched and parsed guide page.
type Page struct {
	Status   int
	FinalURL *url.URL
	Doc      *goquery.Document
}

// OK reports whether the page was served successfully.
func (p *Page) OK() bool {
	return p != nil && p.Status == http.StatusOK && p.Doc != nil
}

// Fetcher retrieves guide pages. Implementations follow redirects and report
// the final URL so callers can detect being sent to a different page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Page, error)
}

// HTTPFetcher fetches pages over HTTP and parses them with goquery.
type HTTPFetcher struct {
	client  *http.Client
	limiter *util.RateLimiter
}

// FetcherOptions configures an HTTPFetcher.
type FetcherOptions struct {
	Timeout           time.Duration
	RequestsPerWindow int
	Window            time.Duration
	Client            *http.Client
}

// NewHTTPFetcher creates a fetcher. A nil Client gets a default client with
// the configured timeout.
func NewHTTPFetcher(opts FetcherOptions) *HTTPFetcher {
	client := opts.Client
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 20 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	window := opts.Window
	if window <= 0 {
		window = 10 * time.Second
	}
	return &HTTPFetcher{
		client:  client,
		limiter: util.NewRateLimiter(opts.RequestsPerWindow, window),
	}
}

// Fetch performs a single GET request. Non-200 responses are returned as a
// Page without a document rather than as an error.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "de-DE,de;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	page := &Page{Status: resp.StatusCode, FinalURL: resp.Request.URL}
	if resp.StatusCode != http.StatusOK {
		return page, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", rawURL, err)
	}
	page.Doc = doc
	return page, nil
}
