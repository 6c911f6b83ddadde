// Package guide looks up series episodes in the fernsehserien.de broadcast
// schedule by channel and air time.
package guide

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Digital-Shane/otr-tidy/internal/otr"
	"github.com/apex/log"
	csmap "github.com/mhmtszr/concurrent-swiss-map"
)

// DefaultBaseURL is the root of the episode guide.
const DefaultBaseURL = "https://www.fernsehserien.de/"

const channelIndexPath = "serien-nach-sendern"

// Guide is a lookup session for one series. It owns the channel resolver and
// one ChannelPages per channel touched during the run.
type Guide struct {
	fetcher   Fetcher
	series    string
	seriesURL string
	resolver  *ChannelResolver
	channels  *csmap.CsMap[string, *ChannelPages]
}

// Options configures Open.
type Options struct {
	BaseURL   string
	Overrides map[string]string
}

// SeriesSlug converts a series name to its guide path segment by joining
// the words with hyphens.
func SeriesSlug(name string) string {
	return strings.Join(strings.Fields(name), "-")
}

// Open loads the channel index and checks that the series page exists.
// Failures are setup errors and should end the run.
func Open(ctx context.Context, fetcher Fetcher, series string, opts Options) (*Guide, error) {
	base := opts.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	indexURL := base + channelIndexPath
	page, err := fetcher.Fetch(ctx, indexURL)
	if err != nil {
		return nil, fmt.Errorf("read channel index: %w", err)
	}
	if !page.OK() {
		return nil, fmt.Errorf("%w: cannot read channel names from %s (status %d)", ErrPageUnavailable, indexURL, page.Status)
	}
	channels, err := ParseChannelIndex(page.Doc)
	if err != nil {
		return nil, err
	}
	resolver, err := NewChannelResolver(channels, opts.Overrides)
	if err != nil {
		return nil, err
	}
	log.WithField("channels", len(channels)).Debug("loaded channel index")

	slug := SeriesSlug(series)
	if slug == "" {
		return nil, fmt.Errorf("%w: empty series name", ErrPageUnavailable)
	}
	seriesURL := base + slug + "/"
	page, err = fetcher.Fetch(ctx, seriesURL)
	if err != nil {
		return nil, fmt.Errorf("read series page: %w", err)
	}
	if !page.OK() {
		return nil, fmt.Errorf("%w: cannot find %s, try a different series name than %q", ErrPageUnavailable, seriesURL, series)
	}

	return &Guide{
		fetcher:   fetcher,
		series:    series,
		seriesURL: seriesURL,
		resolver:  resolver,
		channels:  csmap.Create[string, *ChannelPages](),
	}, nil
}

// Series returns the series name the guide was opened for.
func (g *Guide) Series() string { return g.series }

// SeriesURL returns the series page URL.
func (g *Guide) SeriesURL() string { return g.seriesURL }

// Resolver returns the channel resolver.
func (g *Guide) Resolver() *ChannelResolver { return g.resolver }

// pagesFor returns the page cache of a guide channel, creating it on first use.
func (g *Guide) pagesFor(channel string) *ChannelPages {
	if pages, ok := g.channels.Load(channel); ok {
		return pages
	}
	pages := newChannelPages(g.fetcher, g.seriesURL, channel)
	g.channels.Store(channel, pages)
	return pages
}

// Lookup finds the listing entry for a recording. The returned error wraps
// ErrNoPage, ErrDeclined or ErrInconsistentListing when the guide cannot
// give a single answer.
func (g *Guide) Lookup(ctx context.Context, rec otr.Recording, resolver AmbiguityResolver) (Entry, error) {
	channel, err := g.resolver.Resolve(rec.Channel)
	if err != nil {
		return Entry{}, err
	}
	ctxLog := log.WithFields(log.Fields{
		"file":    rec.Original,
		"channel": channel,
		"aired":   rec.AirTime.Format(time.DateTime),
	})
	ctxLog.Debug("resolved channel")

	pages := g.pagesFor(channel)
	page, err := pages.Locate(ctx, rec.AirTime)
	if err != nil {
		return Entry{}, fmt.Errorf("no page found for series %q on %s: %w", g.series, channel, err)
	}
	ctxLog.WithField("page", page.Index).Debug("located listing page")

	return Match(ctx, page, rec.Original, rec.AirTime, resolver)
}

// Channels returns the guide channels visited so far, sorted.
func (g *Guide) Channels() []string {
	var out []string
	g.channels.Range(func(key string, _ *ChannelPages) bool {
		out = append(out, key)
		return false
	})
	slices.Sort(out)
	return out
}
