// Package core turns parsed recordings into their final filenames and
// renames them in place.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Digital-Shane/otr-tidy/internal/guide"
	"github.com/Digital-Shane/otr-tidy/internal/otr"
	"github.com/apex/log"
)

// ErrDestinationExists is returned instead of overwriting an existing file.
var ErrDestinationExists = errors.New("destination already exists")

// EpisodeGuide looks up the listing entry a series recording belongs to.
type EpisodeGuide interface {
	Series() string
	Lookup(ctx context.Context, rec otr.Recording, resolver guide.AmbiguityResolver) (guide.Entry, error)
}

// TitleSuggester proposes a better movie title. It returns the title
// unchanged when it has nothing better.
type TitleSuggester interface {
	Suggest(ctx context.Context, title string) (string, error)
}

// Journal records renames so they can be undone.
type Journal interface {
	LogRename(sourcePath, destPath string, success bool, err error)
}

// Options configures a Renamer. A nil Guide selects movie mode.
type Options struct {
	Guide     EpisodeGuide
	Suggester TitleSuggester
	Resolver  guide.AmbiguityResolver
	Journal   Journal
	DryRun    bool
	// Report is called once per decided recording, in processing order.
	Report func(Decision)
}

// Decision is the outcome for one recording.
type Decision struct {
	Source      string
	Destination string
	Performed   bool
	Skipped     string
	Err         error
}

// Renamer processes recordings one at a time.
type Renamer struct {
	opts Options
}

// NewRenamer creates a renamer. A nil Resolver declines every proposal.
func NewRenamer(opts Options) *Renamer {
	if opts.Resolver == nil {
		opts.Resolver = guide.StaticResolver(false)
	}
	return &Renamer{opts: opts}
}

// Run renames the recording at path, or every unprocessed recording inside
// path when it is a directory. Per file failures are recorded in the
// returned decisions. An inconsistent listing aborts the run.
func (r *Renamer) Run(ctx context.Context, path string) ([]Decision, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	files := []string{path}
	if info.IsDir() {
		files, err = Scan(ctx, path)
		if err != nil {
			return nil, err
		}
	}

	var decisions []Decision
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return decisions, err
		}

		rec, err := otr.Parse(filepath.Base(file))
		if err != nil {
			log.WithField("file", filepath.Base(file)).WithError(err).Debug("skipping file")
			continue
		}

		d := r.process(ctx, file, rec)
		decisions = append(decisions, d)
		if r.opts.Report != nil {
			r.opts.Report(d)
		}

		if d.Err != nil {
			if errors.Is(d.Err, guide.ErrInconsistentListing) {
				return decisions, d.Err
			}
			if ctxErr := ctx.Err(); ctxErr != nil {
				return decisions, ctxErr
			}
			log.WithFields(log.Fields{
				"file":    rec.Original,
				"channel": rec.Channel,
			}).WithError(d.Err).Warn("skipping recording")
		}
	}
	return decisions, nil
}

func (r *Renamer) process(ctx context.Context, file string, rec otr.Recording) Decision {
	d := Decision{Source: file}

	name, err := r.plan(ctx, rec)
	if err != nil {
		d.Err = err
		return d
	}
	d.Destination = name

	dest := filepath.Join(filepath.Dir(file), name)
	if dest == file {
		d.Skipped = "already named"
		return d
	}
	if _, err := os.Lstat(dest); err == nil {
		d.Err = fmt.Errorf("%w: %s", ErrDestinationExists, name)
		r.logRename(file, dest, false, d.Err)
		return d
	}
	if r.opts.DryRun {
		return d
	}

	if err := os.Rename(file, dest); err != nil {
		d.Err = err
		r.logRename(file, dest, false, err)
		return d
	}
	r.logRename(file, dest, true, nil)
	d.Performed = true
	return d
}

func (r *Renamer) plan(ctx context.Context, rec otr.Recording) (string, error) {
	if r.opts.Guide == nil {
		return r.planMovie(ctx, rec)
	}

	entry, err := r.opts.Guide.Lookup(ctx, rec, r.opts.Resolver)
	if err != nil {
		return "", err
	}
	log.WithFields(log.Fields{
		"file":    rec.Original,
		"season":  entry.Season,
		"episode": entry.Episode,
	}).Debug("matched listing entry")
	return RenderEpisode(r.opts.Guide.Series(), entry.Season, entry.Episode, rec.Format, entry.Title)
}

func (r *Renamer) planMovie(ctx context.Context, rec otr.Recording) (string, error) {
	title := rec.Title
	if r.opts.Suggester != nil {
		suggested, err := r.opts.Suggester.Suggest(ctx, rec.Title)
		if err != nil {
			log.WithField("title", rec.Title).WithError(err).Warn("title lookup failed, keeping title")
		}
		if suggested != "" {
			title = suggested
		}
	}
	return RenderMovie(title, rec.Format)
}

func (r *Renamer) logRename(source, dest string, success bool, err error) {
	if r.opts.Journal == nil || r.opts.DryRun {
		return
	}
	r.opts.Journal.LogRename(source, dest, success, err)
}
