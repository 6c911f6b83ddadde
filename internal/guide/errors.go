package guide

import "errors"

var (
	// ErrPageUnavailable is returned when a guide page cannot be fetched or
	// the site redirects to a different page than the one requested.
	ErrPageUnavailable = errors.New("guide page unavailable")
	// ErrNoPage is returned when no listing page covers the requested air time.
	ErrNoPage = errors.New("no listing page found")
	// ErrDeclined is returned when the operator rejects the closest air time.
	ErrDeclined = errors.New("closest air time declined")
	// ErrInconsistentListing signals that a confirmed air time did not
	// resolve to exactly one listing entry. It aborts the whole run.
	ErrInconsistentListing = errors.New("listing does not contain exactly one entry for confirmed air time")
	// ErrUnknownOverride is returned when a channel override does not name a
	// channel known to the guide.
	ErrUnknownOverride = errors.New("channel override not known to guide")
	// ErrNoChannel is returned when a channel code cannot be resolved.
	ErrNoChannel = errors.New("no matching channel")
)
