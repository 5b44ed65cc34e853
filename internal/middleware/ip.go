package middleware

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// ExtractIP returns the client IP of the request without port.
// The first parseable address in X-Forwarded-For wins, then X-Real-IP, then RemoteAddr.
//
// The forwarding headers are trusted as sent, so the service must run behind a reverse
// proxy that overwrites them.
func ExtractIP(r *http.Request) string {
	for _, candidate := range strings.Split(r.Header.Get("X-Forwarded-For"), ",") {
		if ip, ok := parseAddr(candidate); ok {
			return ip
		}
	}

	if ip, ok := parseAddr(r.Header.Get("X-Real-IP")); ok {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if ip, ok := parseAddr(host); ok {
		return ip
	}
	return strings.TrimSpace(host)
}

func parseAddr(s string) (string, bool) {
	s = strings.Trim(strings.TrimSpace(s), "[]")
	if s == "" {
		return "", false
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return "", false
	}
	return addr.Unmap().String(), true
}
