package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name          string
		remoteAddr    string
		xForwardedFor string
		xRealIP       string
		want          string
	}{
		{name: "RemoteAddr only", remoteAddr: "192.168.1.1:12345", want: "192.168.1.1"},
		{name: "X-Forwarded-For single IP", remoteAddr: "192.168.1.1:12345", xForwardedFor: "203.0.113.1", want: "203.0.113.1"},
		{name: "X-Forwarded-For multiple IPs", remoteAddr: "192.168.1.1:12345", xForwardedFor: "203.0.113.1, 198.51.100.1", want: "203.0.113.1"},
		{name: "X-Forwarded-For skips garbage", remoteAddr: "192.168.1.1:12345", xForwardedFor: "unknown, 198.51.100.1", want: "198.51.100.1"},
		{name: "X-Real-IP", remoteAddr: "192.168.1.1:12345", xRealIP: " 203.0.113.1 ", want: "203.0.113.1"},
		{name: "X-Forwarded-For before X-Real-IP", remoteAddr: "192.168.1.1:12345", xForwardedFor: "203.0.113.1", xRealIP: "198.51.100.1", want: "203.0.113.1"},
		{name: "invalid X-Real-IP falls back", remoteAddr: "192.168.1.1:12345", xRealIP: "proxy", want: "192.168.1.1"},
		{name: "IPv6 RemoteAddr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{name: "IPv4-mapped IPv6", remoteAddr: "[::ffff:10.0.0.7]:80", want: "10.0.0.7"},
		{name: "RemoteAddr without port", remoteAddr: "192.168.1.1", want: "192.168.1.1"},
		{name: "empty", remoteAddr: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xForwardedFor != "" {
				req.Header.Set("X-Forwarded-For", tt.xForwardedFor)
			}
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}

			assert.Equal(t, tt.want, ExtractIP(req))
		})
	}
}
