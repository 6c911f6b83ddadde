package guide

import (
	"context"
	"fmt"
	"time"
)

// maxWalk bounds the number of page steps a single Locate may take.
const maxWalk = 500

// Locate walks from the cursor towards the page whose air time range covers
// t. Earlier broadcasts live on lower indexes. When t falls between two
// adjacent pages the page with the nearer boundary is returned. Any failure
// to load a page is reported as ErrNoPage and leaves the cursor unchanged.
func (c *ChannelPages) Locate(ctx context.Context, t time.Time) (*ListingPage, error) {
	var prev *ListingPage
	lastStep := 0
	cursor := c.cursor

	for steps := 0; steps < maxWalk; steps++ {
		page, err := c.Page(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w for %s at %s: %w", ErrNoPage, c.channel, t.Format("2006-01-02 15:04"), err)
		}

		lo, hi := page.Range()
		step := 0
		switch {
		case t.Before(lo):
			step = -1
		case t.After(hi):
			step = 1
		default:
			c.cursor = cursor
			return page, nil
		}

		if prev != nil && step == -lastStep {
			return c.nearer(prev, page, t), nil
		}

		prev, lastStep = page, step
		cursor += step
	}

	return nil, fmt.Errorf("%w for %s at %s: gave up after %d pages", ErrNoPage, c.channel, t.Format("2006-01-02 15:04"), maxWalk)
}

// nearer picks between two adjacent pages that bracket t and moves the
// cursor onto the chosen one.
func (c *ChannelPages) nearer(a, b *ListingPage, t time.Time) *ListingPage {
	earlier, later := a, b
	if a.Index > b.Index {
		earlier, later = b, a
	}
	_, earlierHi := earlier.Range()
	laterLo, _ := later.Range()

	chosen := later
	if t.Sub(earlierHi) <= laterLo.Sub(t) {
		chosen = earlier
	}
	c.cursor = chosen.Index
	return chosen
}
