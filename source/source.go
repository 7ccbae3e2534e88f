package source

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// ErrNotFound is returned when a source has no image under an identifier.
var ErrNotFound = errors.New("image not found")

// Source reads the bytes of a source image.
type Source interface {
	Read(identifier string) ([]byte, time.Time, error)
}

// Chain tries each source in turn, until one finds the identifier.
type Chain []Source

// Read returns the first match. The error of the last source is returned
// when none has it.
func (c Chain) Read(identifier string) ([]byte, time.Time, error) {
	err := fmt.Errorf("%w: %#v", ErrNotFound, identifier)
	for _, s := range c {
		var buf []byte
		var modTime time.Time
		buf, modTime, err = s.Read(identifier)
		if err == nil {
			return buf, modTime, nil
		}
	}
	return nil, time.Time{}, err
}

// ScrubIdentifier unescapes the identifier and removes any parent directory
// traversal.
func ScrubIdentifier(identifier string) (string, error) {
	clean, err := url.QueryUnescape(identifier)
	if err != nil {
		return "", err
	}

	clean = strings.Replace(clean, "../", "", -1)
	return clean, nil
}
