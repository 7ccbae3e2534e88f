package source

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTP downloads images whose identifier is an URL, either plain or base64
// encoded.
type HTTP struct {
	Client *http.Client
}

// NewHTTP returns a source using client, or http.DefaultClient.
func NewHTTP(client *http.Client) *HTTP {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTP{Client: client}
}

// URL extracts the URL carried by the identifier.
func URL(identifier string) (string, bool) {
	if strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://") {
		return identifier, true
	}
	// routers collapse the double slash
	if strings.HasPrefix(identifier, "http:/") || strings.HasPrefix(identifier, "https:/") {
		return strings.Replace(identifier, ":/", "://", 1), true
	}

	decoded, err := base64.StdEncoding.DecodeString(identifier)
	if err != nil {
		return "", false
	}
	u := string(decoded)
	if strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://") {
		return u, true
	}
	return "", false
}

// Read downloads the image.
func (h *HTTP) Read(identifier string) ([]byte, time.Time, error) {
	u, ok := URL(identifier)
	if !ok {
		return nil, time.Time{}, fmt.Errorf("%w: %#v is not an URL", ErrNotFound, identifier)
	}

	resp, err := h.Client.Get(u)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, time.Time{}, fmt.Errorf("%w: %s answered %d", ErrNotFound, u, resp.StatusCode)
	}

	modTime := time.Now()
	if lm := resp.Header.Get("Last-Modified"); lm != "" {
		if t, err := http.ParseTime(lm); err == nil {
			modTime = t
		}
	}

	var buf []byte
	if resp.ContentLength > 0 {
		b := bytes.NewBuffer(make([]byte, 0, resp.ContentLength))
		_, err = b.ReadFrom(resp.Body)
		buf = b.Bytes()
	} else {
		buf, err = io.ReadAll(resp.Body)
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return buf, modTime, nil
}
