package guide

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Digital-Shane/otr-tidy/internal/match"
	"github.com/PuerkitoBio/goquery"
)

// DefaultChannelOverrides maps recording channel codes whose closest guide
// name is wrong to the guide's channel identifier.
var DefaultChannelOverrides = map[string]string{
	"ard":  "das-erste",
	"swr":  "swr-fernsehen",
	"hr":   "hr-fernsehen",
	"srtl": "superrtl",
	"orf3": "orf-iii",
}

// ChannelResolver maps channel codes from recording filenames to the
// identifiers used in the guide's schedule URLs.
type ChannelResolver struct {
	overrides map[string]string
	channels  []string
}

// NewChannelResolver merges extra overrides into the defaults and checks that
// every override target is a known channel.
func NewChannelResolver(channels []string, extra map[string]string) (*ChannelResolver, error) {
	overrides := maps.Clone(DefaultChannelOverrides)
	for code, target := range extra {
		overrides[strings.ToLower(code)] = target
	}

	known := make(map[string]struct{}, len(channels))
	for _, c := range channels {
		known[c] = struct{}{}
	}
	for _, code := range slices.Sorted(maps.Keys(overrides)) {
		if _, ok := known[overrides[code]]; !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownOverride, code, overrides[code])
		}
	}

	return &ChannelResolver{overrides: overrides, channels: slices.Clone(channels)}, nil
}

// Resolve returns the guide identifier for a channel code. Overrides win,
// otherwise the closest known channel is used however weak the match. Codes
// are case insensitive.
func (r *ChannelResolver) Resolve(code string) (string, error) {
	code = strings.ToLower(code)
	if target, ok := r.overrides[code]; ok {
		return target, nil
	}
	if name, ok := match.Closest(code, r.channels, match.DefaultCutoff); ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrNoChannel, code)
}

// Channels returns the known channel identifiers.
func (r *ChannelResolver) Channels() []string {
	return slices.Clone(r.channels)
}

// ParseChannelIndex reads the channel identifiers from the guide's
// channel selection page.
func ParseChannelIndex(doc *goquery.Document) ([]string, error) {
	var channels []string
	doc.Find("div.serien-nach-sendern-auswahl").First().
		Find("#select-sender").First().
		Find("option").
		Each(func(_ int, s *goquery.Selection) {
			if v, ok := s.Attr("value"); ok && strings.TrimSpace(v) != "" {
				channels = append(channels, strings.TrimSpace(v))
			}
		})
	if len(channels) == 0 {
		return nil, fmt.Errorf("%w: channel index lists no channels", ErrPageUnavailable)
	}
	return channels, nil
}
