// Package format selects the reader for a parsed document by format name
// or file extension.
package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cltl/micro-portraits/pkg/common"
	"github.com/cltl/micro-portraits/pkg/format/jsondoc"
	"github.com/cltl/micro-portraits/pkg/format/naf"
)

// ErrUnknownFormat is returned when no reader matches a name or path.
var ErrUnknownFormat = errors.New("unknown document format")

const (
	NAF  = "naf"
	JSON = "json"
)

// Decoder turns raw file content into a Document. documentID is used when
// the content does not carry an id of its own.
type Decoder interface {
	Decode(data []byte, documentID string) (*common.Document, error)
}

// ForName returns the decoder registered under name.
func ForName(name string) (Decoder, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case NAF, "xml":
		return naf.Decoder{}, nil
	case JSON:
		return jsondoc.Decoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// ForPath picks a decoder from the extension of path. Double extensions
// such as ".naf.xml" resolve to their first known part.
func ForPath(path string) (Decoder, error) {
	base := filepath.Base(path)
	parts := strings.Split(strings.ToLower(base), ".")
	for _, ext := range parts[1:] {
		if d, err := ForName(ext); err == nil {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, base)
}

// Resolve prefers an explicit format name and falls back to the path.
func Resolve(name, path string) (Decoder, error) {
	if name != "" && name != "auto" {
		return ForName(name)
	}
	return ForPath(path)
}
