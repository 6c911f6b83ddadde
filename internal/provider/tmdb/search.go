package tmdb

import (
	"context"
	"fmt"
	"strconv"

	"github.com/Digital-Shane/otr-tidy/internal/provider"
	"github.com/patrickmn/go-cache"
)

// SearchMovies returns the movie search results for query in TMDB's default
// (international) language.
func (p *Provider) SearchMovies(ctx context.Context, query string) ([]provider.Movie, error) {
	if p.client == nil {
		return nil, fmt.Errorf("provider not configured")
	}

	cacheKey := "search:" + query
	if cached, found := p.cache.Get(cacheKey); found {
		if movies, ok := cached.([]provider.Movie); ok {
			return movies, nil
		}
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	results, err := p.client.SearchMovie(query, nil)
	if err != nil {
		return nil, p.mapError(err)
	}
	if results == nil || len(results.Results) == 0 {
		return nil, provider.NotFound(providerName, query)
	}

	movies := make([]provider.Movie, 0, len(results.Results))
	for _, r := range results.Results {
		movies = append(movies, provider.Movie{
			ID:            strconv.Itoa(r.ID),
			Title:         r.Title,
			OriginalTitle: r.OriginalTitle,
			Year:          releaseYear(r.ReleaseDate),
		})
	}

	p.cache.Set(cacheKey, movies, cache.DefaultExpiration)
	return movies, nil
}

// AlternativeTitles returns the search title, the original title and every
// alternative title TMDB knows for the movie, without duplicates.
func (p *Provider) AlternativeTitles(ctx context.Context, movie provider.Movie) ([]string, error) {
	id, err := p.movieID(movie)
	if err != nil {
		return nil, err
	}

	titles := []string{movie.Title}
	seen := map[string]bool{movie.Title: true}
	add := func(title string) {
		if title != "" && !seen[title] {
			seen[title] = true
			titles = append(titles, title)
		}
	}
	add(movie.OriginalTitle)

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}
	alts, err := p.client.GetMovieAlternativeTitles(id, nil)
	if err != nil {
		return nil, p.mapError(err)
	}
	if alts != nil {
		for _, alt := range alts.Titles {
			add(alt.Title)
		}
	}
	return titles, nil
}

// LocalizedTitle returns the movie title in the configured language.
func (p *Provider) LocalizedTitle(ctx context.Context, movie provider.Movie) (string, error) {
	id, err := p.movieID(movie)
	if err != nil {
		return "", err
	}

	cacheKey := "local:" + p.language + ":" + movie.ID
	if cached, found := p.cache.Get(cacheKey); found {
		if title, ok := cached.(string); ok {
			return title, nil
		}
	}

	if err := p.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}
	info, err := p.client.GetMovieInfo(id, map[string]string{"language": p.language})
	if err != nil {
		return "", p.mapError(err)
	}
	if info == nil || info.Title == "" {
		return movie.Title, nil
	}

	p.cache.Set(cacheKey, info.Title, cache.DefaultExpiration)
	return info.Title, nil
}

func (p *Provider) movieID(movie provider.Movie) (int, error) {
	if p.client == nil {
		return 0, fmt.Errorf("provider not configured")
	}
	id, err := strconv.Atoi(movie.ID)
	if err != nil {
		return 0, fmt.Errorf("invalid TMDB id %q: %w", movie.ID, err)
	}
	return id, nil
}

func releaseYear(date string) string {
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}
