package iiif

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/medialab/tesselle/imaging"
	"github.com/medialab/tesselle/pyramid"
	"github.com/medialab/tesselle/source"
)

// HTTPError represents a HTTP error to be shown to the user.
type HTTPError struct {
	StatusCode int
	Message    string
}

// Error formats the HTTPError message.
func (e HTTPError) Error() string {
	return fmt.Sprintf("%d (%s) %s", e.StatusCode, http.StatusText(e.StatusCode), e.Message)
}

// toHTTPError picks the status code matching err.
func toHTTPError(err error) HTTPError {
	var e HTTPError
	switch {
	case errors.As(err, &e):
		return e
	case errors.Is(err, source.ErrNotFound):
		return HTTPError{http.StatusNotFound, err.Error()}
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return HTTPError{http.StatusNotImplemented, err.Error()}
	case errors.Is(err, imaging.ErrEmptyRegion):
		return HTTPError{http.StatusNotFound, err.Error()}
	case errors.Is(err, imaging.ErrOutOfBounds):
		return HTTPError{http.StatusBadRequest, err.Error()}
	case errors.Is(err, pyramid.ErrPath):
		return HTTPError{http.StatusBadRequest, err.Error()}
	}
	return HTTPError{http.StatusInternalServerError, err.Error()}
}
