// Package otr parses the filenames produced by OnlineTVRecorder downloads.
package otr

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Marker identifies files produced by the recording service. Renamed files
// no longer carry it, so it doubles as an "already processed" filter.
const Marker = "TVOON"

var (
	// ErrNotRecording is returned for names that lack the TVOON marker.
	ErrNotRecording = errors.New("not an OnlineTVRecorder file")
	// ErrGrammarMismatch is returned when the name carries the marker but does
	// not follow the recording filename grammar.
	ErrGrammarMismatch = errors.New("filename does not match recording grammar")
)

// recordingRe matches <title>_<YY.MM.DD>_<HH-MM>_<channel>_<minutes>_TVOON_DE.mpg.[HD|HQ.]<avi|mp4>.
// An empty tag segment (".mpg..avi") is accepted as well.
var recordingRe = regexp.MustCompile(
	`^([a-zA-Z0-9_.-]+)_([0-9]{2}\.[0-9]{2}\.[0-9]{2})_([0-9]{2}-[0-9]{2})_([a-zA-Z0-9]+)_([0-9]+)_TVOON_DE\.mpg\.(?:(HD|HQ)?\.)?(avi|mp4)$`,
)

// airTimeLayout is the combined date/time layout of the date and time segments.
const airTimeLayout = "06.01.02 15-04"

// Recording holds the structured fields of a recording filename.
type Recording struct {
	Title           string
	AirTime         time.Time
	Channel         string
	DurationMinutes int
	Format          string
	Extension       string
	Original        string
}

// Parse extracts the recording fields from a bare filename.
func Parse(filename string) (Recording, error) {
	if !strings.Contains(filename, Marker) {
		return Recording{}, ErrNotRecording
	}

	m := recordingRe.FindStringSubmatch(filename)
	if m == nil {
		return Recording{}, ErrGrammarMismatch
	}

	airTime, err := time.ParseInLocation(airTimeLayout, m[2]+" "+m[3], time.UTC)
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %v", ErrGrammarMismatch, err)
	}

	duration, err := strconv.Atoi(m[5])
	if err != nil {
		return Recording{}, fmt.Errorf("%w: %v", ErrGrammarMismatch, err)
	}

	return Recording{
		Title:           ReadableTitle(m[1]),
		AirTime:         airTime,
		Channel:         m[4],
		DurationMinutes: duration,
		Format:          m[6],
		Extension:       m[7],
		Original:        filename,
	}, nil
}

// ReadableTitle turns the underscore encoded title segment into words. A
// double underscore marks a subtitle and becomes " - ".
func ReadableTitle(segment string) string {
	title := strings.ReplaceAll(segment, "__", " - ")
	return strings.ReplaceAll(title, "_", " ")
}

// IsCandidate reports whether a filename looks like an unprocessed recording.
func IsCandidate(filename string) bool {
	if !strings.Contains(filename, Marker) {
		return false
	}
	return strings.HasSuffix(filename, ".avi") || strings.HasSuffix(filename, ".mp4")
}
