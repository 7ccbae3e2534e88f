package iiif

import (
	"context"
	"net/http"
	"time"

	"github.com/golang/groupcache"
	"github.com/sirupsen/logrus"

	"github.com/medialab/tesselle/config"
)

// ContextKey is the cache key to use.
type ContextKey string

// WithGroupCaches sets the various caches.
func WithGroupCaches(h http.Handler, groups map[string]*groupcache.Group) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		for k, v := range groups {
			ctx = context.WithValue(ctx, ContextKey(k), v)
		}
		r = r.WithContext(ctx)
		h.ServeHTTP(w, r)
	})
}

// WithConfig sets the server configuration.
func WithConfig(h http.Handler, config *config.Config) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, ContextKey("config"), config)
		r = r.WithContext(ctx)
		h.ServeHTTP(w, r)
	})
}

// WithImages sets the source of the images.
func WithImages(h http.Handler, images *Images) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		ctx = context.WithValue(ctx, ContextKey("images"), images)
		r = r.WithContext(ctx)
		h.ServeHTTP(w, r)
	})
}

// WithLogger sets the logger and logs every request.
func WithLogger(h http.Handler, logger logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		ctx = context.WithValue(ctx, ContextKey("logger"), logger)
		r = r.WithContext(ctx)
		h.ServeHTTP(w, r)
		logger.WithFields(logrus.Fields{
			"method":   r.Method,
			"url":      r.URL.String(),
			"duration": time.Since(start),
		}).Debug("Request served")
	})
}

func loggerFrom(ctx context.Context) logrus.FieldLogger {
	if logger, ok := ctx.Value(ContextKey("logger")).(logrus.FieldLogger); ok {
		return logger
	}
	return logrus.StandardLogger()
}
