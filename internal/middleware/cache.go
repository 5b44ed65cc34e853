package middleware

import (
	"net/http"
	"strings"
)

// Cache-Control values per route family.
const (
	cacheNoStore      = "no-store"
	cacheCatalog      = "public, max-age=3600"
	cacheMeasurements = "public, max-age=60"
	cacheMapData      = "public, max-age=30, must-revalidate"
	cacheDefault      = "no-cache"
)

// CacheControl sets Cache-Control by route:
// writes and onboarding sessions are never stored, the device catalog is cached for an hour,
// chart data for a minute, and map listings for 30 seconds.
func CacheControl(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", cachePolicy(r.Method, r.URL.Path))
		next.ServeHTTP(w, r)
	})
}

func cachePolicy(method, path string) string {
	if !isRead(method) {
		return cacheNoStore
	}

	switch {
	case strings.HasPrefix(path, "/api/v1/onboarding"), path == "/healthz":
		return cacheNoStore
	case path == "/api/v1/catalog":
		return cacheCatalog
	case strings.HasPrefix(path, "/api/v1/devices/") && strings.HasSuffix(path, "/measurements"):
		return cacheMeasurements
	case path == "/api/v1/map", path == "/api/v1/campaigns", strings.HasPrefix(path, "/api/v1/devices"):
		return cacheMapData
	default:
		return cacheDefault
	}
}
