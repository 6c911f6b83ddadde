package guide

import (
	"context"
	"fmt"
	"path"
	"strconv"

	"github.com/patrickmn/go-cache"
)

// ChannelPages holds the schedule pages of one series on one channel. Pages
// are fetched lazily and kept for the rest of the run. The cursor remembers
// the last located page so consecutive recordings start close to their
// target.
type ChannelPages struct {
	fetcher   Fetcher
	seriesURL string
	channel   string
	cursor    int
	pages     *cache.Cache
}

// firstCursor is the page the site serves for the most recent broadcasts.
const firstCursor = -1

func newChannelPages(fetcher Fetcher, seriesURL, channel string) *ChannelPages {
	return &ChannelPages{
		fetcher:   fetcher,
		seriesURL: seriesURL,
		channel:   channel,
		cursor:    firstCursor,
		pages:     cache.New(cache.NoExpiration, 0),
	}
}

// Cursor returns the index of the last located page.
func (c *ChannelPages) Cursor() int { return c.cursor }

// URL returns the schedule URL for a page index.
func (c *ChannelPages) URL(index int) string {
	return c.seriesURL + "sendetermine/" + c.channel + "/" + strconv.Itoa(index)
}

// Page returns the listing page at index, fetching it on first use.
func (c *ChannelPages) Page(ctx context.Context, index int) (*ListingPage, error) {
	key := strconv.Itoa(index)
	if cached, found := c.pages.Get(key); found {
		return cached.(*ListingPage), nil
	}

	pageURL := c.URL(index)
	resp, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrPageUnavailable, pageURL, resp.Status)
	}
	if resp.FinalURL != nil && path.Base(resp.FinalURL.Path) != key {
		return nil, fmt.Errorf("%w: %s redirected to %s", ErrPageUnavailable, pageURL, resp.FinalURL)
	}

	page, err := ParseListing(index, resp.Doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPageUnavailable, pageURL, err)
	}

	c.pages.Set(key, page, cache.NoExpiration)
	return page, nil
}

// Cached reports how many pages have been fetched so far.
func (c *ChannelPages) Cached() int {
	return c.pages.ItemCount()
}
