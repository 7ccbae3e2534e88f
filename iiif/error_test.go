package iiif

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/pyramid"
	"github.com/medialab/tesselle/source"
)

func TestToHTTPError(t *testing.T) {
	var tests = []struct {
		err    error
		status int
	}{
		{HTTPError{http.StatusTeapot, "tea"}, http.StatusTeapot},
		{fmt.Errorf("x: %w", source.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", imaging.ErrUnsupportedFormat), http.StatusNotImplemented},
		{fmt.Errorf("x: %w", imaging.ErrEmptyRegion), http.StatusNotFound},
		{fmt.Errorf("x: %w", imaging.ErrOutOfBounds), http.StatusBadRequest},
		{fmt.Errorf("x: %w", pyramid.ErrPath), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, test := range tests {
		if e := toHTTPError(test.err); e.StatusCode != test.status {
			t.Errorf("%v: got %v want %v", test.err, e.StatusCode, test.status)
		}
	}
}
