package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCacheControl(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		want   string
	}{
		{"catalog", http.MethodGet, "/api/v1/catalog", "public, max-age=3600"},
		{"measurements", http.MethodGet, "/api/v1/devices/abc/measurements", "public, max-age=60"},
		{"device list", http.MethodGet, "/api/v1/devices", "public, max-age=30, must-revalidate"},
		{"device detail", http.MethodGet, "/api/v1/devices/abc", "public, max-age=30, must-revalidate"},
		{"campaigns", http.MethodGet, "/api/v1/campaigns", "public, max-age=30, must-revalidate"},
		{"map", http.MethodGet, "/api/v1/map", "public, max-age=30, must-revalidate"},
		{"head map", http.MethodHead, "/api/v1/map", "public, max-age=30, must-revalidate"},
		{"onboarding state", http.MethodGet, "/api/v1/onboarding/123", "no-store"},
		{"health", http.MethodGet, "/healthz", "no-store"},
		{"unknown path", http.MethodGet, "/", "no-cache"},
		{"onboarding start", http.MethodPost, "/api/v1/onboarding", "no-store"},
		{"put", http.MethodPut, "/api/v1/catalog", "no-store"},
		{"delete", http.MethodDelete, "/api/v1/devices/abc", "no-store"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := CacheControl(okHandler)
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Header().Get("Cache-Control"))
		})
	}
}
