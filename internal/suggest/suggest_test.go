package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/Digital-Shane/otr-tidy/internal/provider"
	"github.com/google/go-cmp/cmp"
)

type fakeProvider struct {
	results   map[string][]provider.Movie
	alts      map[string][]string
	local     map[string]string
	searchErr error
	noAlts    bool
	queries   []string
}

func (f *fakeProvider) Name() string        { return "fake" }
func (f *fakeProvider) Description() string { return "fake catalogue" }
func (f *fakeProvider) Capabilities() provider.ProviderCapabilities {
	return provider.ProviderCapabilities{AlternativeTitles: !f.noAlts, LocalizedTitles: true}
}
func (f *fakeProvider) Configure(map[string]interface{}) error { return nil }
func (f *fakeProvider) ConfigSchema() provider.ConfigSchema    { return provider.ConfigSchema{} }

func (f *fakeProvider) SearchMovies(_ context.Context, query string) ([]provider.Movie, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if movies, ok := f.results[query]; ok {
		return movies, nil
	}
	return nil, provider.NotFound("fake", query)
}

func (f *fakeProvider) AlternativeTitles(_ context.Context, movie provider.Movie) ([]string, error) {
	if alts, ok := f.alts[movie.ID]; ok {
		return append([]string{movie.Title}, alts...), nil
	}
	return nil, errors.New("no alternatives")
}

func (f *fakeProvider) LocalizedTitle(_ context.Context, movie provider.Movie) (string, error) {
	return f.local[movie.ID], nil
}

func dragonCatalogue() *fakeProvider {
	return &fakeProvider{
		results: map[string][]provider.Movie{
			"Drachenzähmen leicht gemacht": {
				{ID: "10191", Title: "How to Train Your Dragon"},
				{ID: "82702", Title: "How to Train Your Dragon 2"},
			},
			"James Bond 007 - Skyfall": {
				{ID: "37724", Title: "Skyfall"},
			},
		},
		alts: map[string][]string{
			"10191": {"Drachenzähmen leicht gemacht", "Dragons"},
			"82702": {"Drachenzähmen leicht gemacht 2"},
		},
		local: map[string]string{
			"10191": "Drachenzähmen leicht gemacht (2010)",
			"37724": "James Bond 007 - Skyfall",
		},
	}
}

func TestParseMethod(t *testing.T) {
	for _, name := range []string{"none", "imdb_global", "imdb_closest", "imdb_local"} {
		if m, err := ParseMethod(name); err != nil || string(m) != name {
			t.Errorf("ParseMethod(%q) = %q, %v", name, m, err)
		}
	}
	if m, err := ParseMethod(""); err != nil || m != MethodNone {
		t.Errorf("ParseMethod(\"\") = %q, %v", m, err)
	}
	if _, err := ParseMethod("imdb"); !errors.Is(err, ErrUnknownMethod) {
		t.Errorf("ParseMethod(imdb) error = %v, want ErrUnknownMethod", err)
	}
}

func TestNewRequiresProvider(t *testing.T) {
	if _, err := New(MethodGlobal, nil); err == nil {
		t.Error("New() expected error without provider")
	}
	s, err := New(MethodNone, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	got, err := s.Suggest(context.Background(), "James Bond 007 - Skyfall")
	if err != nil || got != "James Bond 007 - Skyfall" {
		t.Errorf("Suggest() = %q, %v", got, err)
	}
}

func TestSuggestMethods(t *testing.T) {
	tests := []struct {
		name        string
		method      Method
		title       string
		want        string
		wantQueries []string
	}{
		{
			name:        "global",
			method:      MethodGlobal,
			title:       "James Bond 007 - Skyfall",
			want:        "Skyfall",
			wantQueries: []string{"James Bond 007 - Skyfall"},
		},
		{
			name:        "global with umlaut retry",
			method:      MethodGlobal,
			title:       "Drachenzaehmen leicht gemacht",
			want:        "How to Train Your Dragon",
			wantQueries: []string{"Drachenzaehmen leicht gemacht", "Drachenzähmen leicht gemacht"},
		},
		{
			name:        "closest over alternative titles",
			method:      MethodClosest,
			title:       "Drachenzaehmen leicht gemacht",
			want:        "Drachenzähmen leicht gemacht",
			wantQueries: []string{"Drachenzaehmen leicht gemacht", "Drachenzähmen leicht gemacht"},
		},
		{
			name:        "local strips year",
			method:      MethodLocal,
			title:       "Drachenzaehmen leicht gemacht",
			want:        "Drachenzähmen leicht gemacht",
			wantQueries: []string{"Drachenzaehmen leicht gemacht", "Drachenzähmen leicht gemacht"},
		},
		{
			name:        "not found keeps raw title",
			method:      MethodGlobal,
			title:       "Ein voellig unbekannter Film",
			want:        "Ein voellig unbekannter Film",
			wantQueries: []string{"Ein voellig unbekannter Film", "Ein völlig unbekannter Film"},
		},
		{
			name:        "no retry without umlaut spellings",
			method:      MethodGlobal,
			title:       "Unknown",
			want:        "Unknown",
			wantQueries: []string{"Unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := dragonCatalogue()
			s, err := New(tt.method, p)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			got, err := s.Suggest(context.Background(), tt.title)
			if err != nil {
				t.Fatalf("Suggest() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Suggest() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantQueries, p.queries); diff != "" {
				t.Errorf("queries mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSuggestClosestWithoutAlternatives(t *testing.T) {
	p := dragonCatalogue()
	p.noAlts = true
	s, _ := New(MethodClosest, p)

	got, err := s.Suggest(context.Background(), "Drachenzaehmen leicht gemacht")
	if err != nil {
		t.Fatalf("Suggest() error = %v", err)
	}
	if got != "How to Train Your Dragon" && got != "How to Train Your Dragon 2" {
		t.Errorf("Suggest() = %q, want one of the search titles", got)
	}
}

func TestSuggestLookupError(t *testing.T) {
	boom := &provider.ProviderError{Provider: "fake", Code: provider.CodeAuthFailed, Message: "bad key"}
	p := dragonCatalogue()
	p.searchErr = boom
	s, _ := New(MethodGlobal, p)

	got, err := s.Suggest(context.Background(), "James Bond 007 - Skyfall")
	if !errors.Is(err, boom) {
		t.Fatalf("Suggest() error = %v, want provider error", err)
	}
	if got != "James Bond 007 - Skyfall" {
		t.Errorf("Suggest() = %q, want raw title on error", got)
	}
}

func TestStripYear(t *testing.T) {
	tests := []struct{ in, want string }{
		{in: "Drachenzähmen leicht gemacht (2010)", want: "Drachenzähmen leicht gemacht"},
		{in: "Skyfall (2012) (Director's Cut)", want: "Skyfall"},
		{in: "Blade Runner 2049", want: "Blade Runner 2049"},
		{in: "Der Pate (Teil 2)", want: "Der Pate (Teil 2)"},
	}
	for _, tt := range tests {
		if got := StripYear(tt.in); got != tt.want {
			t.Errorf("StripYear(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
