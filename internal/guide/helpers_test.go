package guide

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
)

type fixtureEntry struct {
	when    string // "02.01.2006 15:04"
	episode string // "12.19"
	title   string
}

func airTime(t *testing.T, value string) time.Time {
	t.Helper()
	at, err := time.ParseInLocation("02.01.2006 15:04", value, time.UTC)
	if err != nil {
		t.Fatalf("bad fixture time %q: %v", value, err)
	}
	return at
}

// listingHTML renders a schedule page in the site's markup. Date and time are
// separated by a <br> so the text content runs them together.
func listingHTML(entries ...fixtureEntry) string {
	var b strings.Builder
	b.WriteString(`<html><body><section class="sendetermine">`)
	for _, e := range entries {
		date, clock, _ := strings.Cut(e.when, " ")
		fmt.Fprintf(&b, `<div class="sendetermine-2019 sendetermine-2019-sendung" role="row">`+
			`<a href="/folgen/x" role="cell">`+
			`<span class="sendetermine-2019-wochentag">Di. %s<br>%s–23:59</span>`+
			`<span class="sendetermine-2019-staffel-und-episode-smartphone">%s</span>`+
			`<span class="sendetermine-2019-episodentitel">%s <span class="sendetermine-2019-originaltitel">(Original)</span></span>`+
			`</a></div>`, date, clock, e.episode, e.title)
	}
	b.WriteString(`</section></body></html>`)
	return b.String()
}

func channelIndexHTML(channels ...string) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="serien-nach-sendern-auswahl"><select id="select-sender">`)
	for _, c := range channels {
		fmt.Fprintf(&b, `<option value="%s">%s</option>`, c, strings.ToUpper(c))
	}
	b.WriteString(`</select></div></body></html>`)
	return b.String()
}

func mustDoc(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

type fakeResponse struct {
	status   int
	body     string
	redirect string
}

// fakeFetcher serves canned pages by URL and counts requests.
type fakeFetcher struct {
	mu    sync.Mutex
	pages map[string]fakeResponse
	calls map[string]int
	err   error
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{pages: map[string]fakeResponse{}, calls: map[string]int{}}
}

func (f *fakeFetcher) serve(rawURL, body string) {
	f.pages[rawURL] = fakeResponse{status: http.StatusOK, body: body}
}

func (f *fakeFetcher) redirect(from, to string) {
	f.pages[from] = fakeResponse{status: http.StatusOK, redirect: to}
}

func (f *fakeFetcher) count(rawURL string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[rawURL]
}

func (f *fakeFetcher) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeFetcher) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	f.mu.Lock()
	f.calls[rawURL]++
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}

	resp, ok := f.pages[rawURL]
	final := rawURL
	if ok && resp.redirect != "" {
		final = resp.redirect
		resp, ok = f.pages[final]
	}
	u, err := url.Parse(final)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Page{Status: http.StatusNotFound, FinalURL: u}, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(resp.body))
	if err != nil {
		return nil, err
	}
	return &Page{Status: resp.status, FinalURL: u, Doc: doc}, nil
}
