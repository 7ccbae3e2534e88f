package iiif

import (
	"bytes"
	"crypto/sha1"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/golang/groupcache"
	"github.com/gorilla/mux"

	"github.com/medialab/tesselle/config"
	"github.com/medialab/tesselle/profile"
	"github.com/medialab/tesselle/pyramid"
	"github.com/medialab/tesselle/source"
)

//go:embed templates
var templates embed.FS

var viewers = template.Must(template.ParseFS(templates, "templates/*.html"))

// RedirectHandler sends the client to the image information.
func RedirectHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	identifier, err := source.ScrubIdentifier(vars["identifier"])
	if err != nil || identifier == "" {
		http.NotFound(w, r)
		return
	}

	http.Redirect(w, r, fmt.Sprintf("%s/%s/info.json", baseURL(r), identifier), http.StatusSeeOther)
}

// InfoHandler responds to the image technical properties.
func InfoHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ctx := r.Context()

	config, _ := ctx.Value(ContextKey("config")).(*config.Config)
	images, _ := ctx.Value(ContextKey("images")).(*Images)
	sources, _ := ctx.Value(ContextKey(SourcesGroup)).(*groupcache.Group)

	identifier, err := source.ScrubIdentifier(vars["identifier"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	image, err := openImage(ctx, identifier, images, sources)
	if err != nil {
		e := toHTTPError(err)
		http.Error(w, e.Error(), e.StatusCode)
		return
	}

	opts := pyramidOptions(config)
	factors := pyramid.Generate(image, opts).ScaleFactors()
	p := profile.NewProfile(
		fmt.Sprintf("%s/%s", baseURL(r), identifier),
		image.Width(),
		image.Height(),
		opts.TileSize,
		factors,
	)

	buffer, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		http.Error(w, "Cannot create profile", http.StatusInternalServerError)
		return
	}

	header := w.Header()

	accept := r.Header.Get("Accept")
	if strings.Contains(accept, "application/ld+json") {
		header.Set("Content-Type", "application/ld+json")
	} else {
		header.Set("Content-Type", "application/json")
	}
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
	header.Set("ETag", getETag(r.URL.String()))
	header.Set("Cache-Control", fmt.Sprintf("max-age=%v, public", config.Cache.HTTP))
	http.ServeContent(w, r, "info.json", image.ModTime, bytes.NewReader(buffer))
}

// ViewerHandler responds with the embedded viewers.
func ViewerHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	config, _ := r.Context().Value(ContextKey("config")).(*config.Config)

	identifier, err := source.ScrubIdentifier(vars["identifier"])
	if err != nil {
		http.NotFound(w, r)
		return
	}

	t := viewers.Lookup(vars["viewer"] + ".html")
	if t == nil {
		http.NotFound(w, r)
		return
	}

	p := struct {
		Identifier string
		Info       string
		TileSize   int
	}{
		Identifier: identifier,
		Info:       fmt.Sprintf("%s/%s/info.json", baseURL(r), identifier),
		TileSize:   config.Tiles.Size,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.Execute(w, p); err != nil {
		loggerFrom(r.Context()).WithError(err).Error("Cannot render viewer")
	}
}

// baseURL rebuilds the public URL of the server, behind a proxy or not.
func baseURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	if r.Header.Get("X-Forwarded-Proto") != "" {
		scheme = r.Header.Get("X-Forwarded-Proto")
	}

	host := r.Host
	if r.Header.Get("X-Forwarded-Host") != "" {
		host = r.Header.Get("X-Forwarded-Host")
	}

	return fmt.Sprintf("%s://%s", scheme, host)
}

func getETag(str string) string {
	return fmt.Sprintf("\"%x\"", sha1.Sum([]byte(str)))
}
