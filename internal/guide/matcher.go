package guide

import (
	"context"
	"fmt"
	"time"
)

// Proposal describes a recording without an exact listing entry and the
// nearest entry that could be used instead.
type Proposal struct {
	Recording string
	Wanted    time.Time
	Closest   Entry
}

// AmbiguityResolver decides whether the closest listing entry should be used
// when no single entry airs exactly at the recording time.
type AmbiguityResolver interface {
	Confirm(ctx context.Context, p Proposal) (bool, error)
}

// StaticResolver answers every proposal the same way.
type StaticResolver bool

// Confirm implements AmbiguityResolver.
func (s StaticResolver) Confirm(ctx context.Context, _ Proposal) (bool, error) {
	return bool(s), ctx.Err()
}

// Match picks the listing entry for a recording aired at t. A single exact
// entry is returned directly. Otherwise the nearest entry is offered to the
// resolver. Several entries at the same time take the same route.
func Match(ctx context.Context, page *ListingPage, recording string, t time.Time, resolver AmbiguityResolver) (Entry, error) {
	exact := page.At(t)
	if len(exact) == 1 {
		return exact[0], nil
	}

	closest, ok := page.Closest(t)
	if !ok {
		return Entry{}, fmt.Errorf("%w: page %d is empty", ErrNoPage, page.Index)
	}

	accepted, err := resolver.Confirm(ctx, Proposal{Recording: recording, Wanted: t, Closest: closest})
	if err != nil {
		return Entry{}, err
	}
	if !accepted {
		return Entry{}, fmt.Errorf("%w: wanted %s, closest %s", ErrDeclined,
			t.Format("2006-01-02 15:04"), closest.AirTime.Format("2006-01-02 15:04"))
	}

	confirmed := page.At(closest.AirTime)
	if len(confirmed) != 1 {
		return Entry{}, fmt.Errorf("%w: %d entries at %s on page %d", ErrInconsistentListing,
			len(confirmed), closest.AirTime.Format("2006-01-02 15:04"), page.Index)
	}
	return confirmed[0], nil
}
