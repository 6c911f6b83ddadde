package guide

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	entrySelector   = "div.sendetermine-2019.sendetermine-2019-sendung a"
	dateSelector    = "span.sendetermine-2019-wochentag"
	episodeSelector = "span.sendetermine-2019-staffel-und-episode-smartphone"
	titleSelector   = "span.sendetermine-2019-episodentitel"

	// Date and time are rendered adjacent, e.g. "23.02.201621:40"
	airTimeLayout = "02.01.200615:04"
)

// Entry is a single broadcast listed on a schedule page.
type Entry struct {
	AirTime time.Time
	Season  string
	Episode string
	Title   string
}

// ListingPage is one page of a channel's broadcast schedule for a series.
type ListingPage struct {
	Index   int
	Entries []Entry
}

// Range returns the earliest and latest air time on the page.
func (p *ListingPage) Range() (time.Time, time.Time) {
	if len(p.Entries) == 0 {
		return time.Time{}, time.Time{}
	}
	lo, hi := p.Entries[0].AirTime, p.Entries[0].AirTime
	for _, e := range p.Entries[1:] {
		if e.AirTime.Before(lo) {
			lo = e.AirTime
		}
		if e.AirTime.After(hi) {
			hi = e.AirTime
		}
	}
	return lo, hi
}

// Contains reports whether t falls inside the page's air time range.
func (p *ListingPage) Contains(t time.Time) bool {
	lo, hi := p.Range()
	return !t.Before(lo) && !t.After(hi)
}

// At returns all entries aired exactly at t.
func (p *ListingPage) At(t time.Time) []Entry {
	var out []Entry
	for _, e := range p.Entries {
		if e.AirTime.Equal(t) {
			out = append(out, e)
		}
	}
	return out
}

// Closest returns the entry whose air time is nearest to t. Ties go to the
// entry listed first.
func (p *ListingPage) Closest(t time.Time) (Entry, bool) {
	if len(p.Entries) == 0 {
		return Entry{}, false
	}
	best := p.Entries[0]
	bestDiff := absDuration(best.AirTime.Sub(t))
	for _, e := range p.Entries[1:] {
		if d := absDuration(e.AirTime.Sub(t)); d < bestDiff {
			best, bestDiff = e, d
		}
	}
	return best, true
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

// ParseListing extracts schedule entries from a listing document. A single
// unreadable air time fails the whole page.
func ParseListing(index int, doc *goquery.Document) (*ListingPage, error) {
	page := &ListingPage{Index: index}
	var parseErr error

	doc.Find(entrySelector).EachWithBreak(func(i int, s *goquery.Selection) bool {
		airTime, err := parseAirTime(s.Find(dateSelector).First().Text())
		if err != nil {
			parseErr = fmt.Errorf("entry %d: %w", i, err)
			return false
		}
		season, episode := splitEpisode(s.Find(episodeSelector).First().Text())
		page.Entries = append(page.Entries, Entry{
			AirTime: airTime,
			Season:  season,
			Episode: episode,
			Title:   ownText(s.Find(titleSelector).First()),
		})
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	if len(page.Entries) == 0 {
		return nil, fmt.Errorf("page %d has no entries", index)
	}
	return page, nil
}

// parseAirTime reads texts like "Di. 23.02.2016 21:40–22:05". Only the start
// time is used and the weekday is dropped.
func parseAirTime(text string) (time.Time, error) {
	start, _, _ := strings.Cut(text, "–")
	fields := strings.Fields(start)
	if len(fields) < 2 {
		return time.Time{}, fmt.Errorf("unreadable air time %q", text)
	}
	t, err := time.ParseInLocation(airTimeLayout, strings.Join(fields[1:], ""), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("unreadable air time %q: %w", text, err)
	}
	return t, nil
}

// splitEpisode splits "12.19" into season and episode. Specials without a
// season number keep the whole text as episode.
func splitEpisode(text string) (string, string) {
	text = strings.TrimSpace(text)
	season, episode, ok := strings.Cut(text, ".")
	if !ok {
		return "", text
	}
	return season, episode
}

// ownText returns the first non-blank text node directly inside the
// selection, ignoring nested elements such as the original-title span.
func ownText(s *goquery.Selection) string {
	for _, n := range s.Nodes {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode {
				continue
			}
			if text := strings.TrimSpace(c.Data); text != "" {
				return text
			}
		}
	}
	return ""
}
