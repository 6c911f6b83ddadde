package core

import (
	"errors"
	"strings"
)

const invalidFilenameChars = "<>:\"/\\|?*"

// ErrEmptyName is returned when nothing is left of a name after sanitizing.
var ErrEmptyName = errors.New("name is empty after sanitization")

// SanitizeFilename makes name safe for common filesystems. A colon is
// rendered as " -" first, then every character of <>:"/\|?* and every
// control character is dropped.
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, ":", " -")

	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if r < 32 || r == 127 || strings.ContainsRune(invalidFilenameChars, r) {
			continue
		}
		b.WriteRune(r)
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", ErrEmptyName
	}
	return result, nil
}
