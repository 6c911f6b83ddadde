// Package suggest proposes catalogue titles for movie recordings.
package suggest

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/Digital-Shane/otr-tidy/internal/match"
	"github.com/Digital-Shane/otr-tidy/internal/provider"
	"github.com/apex/log"
)

// Method selects how a movie title is looked up.
type Method string

const (
	MethodNone    Method = "none"
	MethodGlobal  Method = "imdb_global"
	MethodClosest Method = "imdb_closest"
	MethodLocal   Method = "imdb_local"
)

// Methods lists the accepted method names.
var Methods = []Method{MethodNone, MethodGlobal, MethodClosest, MethodLocal}

// ErrUnknownMethod is returned for unsupported method names.
var ErrUnknownMethod = errors.New("unknown title method")

// maxAlternativeLookups bounds the results whose alternative titles are
// fetched for MethodClosest.
const maxAlternativeLookups = 5

// yearSuffixRe matches the release year appended to some localized titles.
var yearSuffixRe = regexp.MustCompile(` \([0-9]{4}\)`)

// umlauts restores characters that recording filenames spell out.
var umlauts = strings.NewReplacer(
	"Ae", "Ä", "Oe", "Ö", "Ue", "Ü",
	"ae", "ä", "oe", "ö", "ue", "ü",
)

// ParseMethod validates a method name. An empty name means MethodNone.
func ParseMethod(name string) (Method, error) {
	if name == "" {
		return MethodNone, nil
	}
	for _, m := range Methods {
		if string(m) == name {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w %q (want one of none, imdb_global, imdb_closest, imdb_local)", ErrUnknownMethod, name)
}

// Suggester looks up better titles for movie recordings.
type Suggester struct {
	method   Method
	provider provider.Provider
}

// New creates a suggester. Every method except MethodNone needs a provider.
func New(method Method, p provider.Provider) (*Suggester, error) {
	if method != MethodNone && p == nil {
		return nil, fmt.Errorf("title method %s needs a configured provider", method)
	}
	return &Suggester{method: method, provider: p}, nil
}

// Suggest returns the title to use for a recording. The raw title is
// returned when nothing better is found. On lookup errors the raw title is
// returned together with the error.
func (s *Suggester) Suggest(ctx context.Context, title string) (string, error) {
	if s == nil || s.method == MethodNone {
		return title, nil
	}
	ctxLog := log.WithFields(log.Fields{"title": title, "method": s.method, "provider": s.provider.Name()})

	query := title
	movies, err := s.provider.SearchMovies(ctx, query)
	if provider.IsNotFound(err) {
		query = umlauts.Replace(title)
		if query != title {
			ctxLog.WithField("query", query).Debug("retrying search with umlauts")
			movies, err = s.provider.SearchMovies(ctx, query)
		}
	}
	if provider.IsNotFound(err) {
		ctxLog.Debug("no catalogue match, keeping title")
		return title, nil
	}
	if err != nil {
		return title, fmt.Errorf("search %q: %w", query, err)
	}
	if len(movies) == 0 {
		return title, nil
	}

	var suggestion string
	switch s.method {
	case MethodGlobal:
		suggestion = movies[0].Title
	case MethodClosest:
		suggestion, err = s.closest(ctx, query, movies)
	case MethodLocal:
		suggestion, err = s.provider.LocalizedTitle(ctx, movies[0])
		suggestion = StripYear(suggestion)
	default:
		return title, fmt.Errorf("%w %q", ErrUnknownMethod, s.method)
	}
	if err != nil {
		return title, err
	}
	if strings.TrimSpace(suggestion) == "" {
		return title, nil
	}

	ctxLog.WithField("suggestion", suggestion).Debug("catalogue title found")
	return suggestion, nil
}

// closest picks the catalogue or alternative title most similar to query.
func (s *Suggester) closest(ctx context.Context, query string, movies []provider.Movie) (string, error) {
	var names []string
	for i, movie := range movies {
		if i >= maxAlternativeLookups || !s.provider.Capabilities().AlternativeTitles {
			names = append(names, movie.Title)
			continue
		}
		alts, err := s.provider.AlternativeTitles(ctx, movie)
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			log.WithError(err).WithField("movie", movie.Title).Debug("alternative titles unavailable")
			names = append(names, movie.Title)
			continue
		}
		names = append(names, alts...)
	}

	best, ok := match.Closest(query, names, match.DefaultCutoff)
	if !ok {
		return "", nil
	}
	return best, nil
}

// StripYear removes a " (YYYY)" marker and anything after it.
func StripYear(title string) string {
	if loc := yearSuffixRe.FindStringIndex(title); loc != nil {
		return title[:loc[0]]
	}
	return title
}
