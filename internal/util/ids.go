package util

import (
	"path/filepath"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const nanoidLength = 21

// NewID returns a random URL-safe identifier used for runs and jobs.
func NewID() (string, error) {
	return gonanoid.New(nanoidLength)
}

// IsNanoid reports whether s has the shape of an id returned by NewID.
func IsNanoid(s string) bool {
	if len(s) != nanoidLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '-':
		default:
			return false
		}
	}
	return true
}

// DocumentIDFromPath derives a document id from a file path or object key
// by dropping the directory and every extension, so "in/wiki_12.naf.xml"
// becomes "wiki_12".
func DocumentIDFromPath(path string) string {
	base := filepath.Base(filepath.ToSlash(path))
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}
