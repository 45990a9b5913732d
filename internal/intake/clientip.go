package intake

import (
	"net/http"
	"strings"
)

// FallbackClientIP is returned when no proxy header identifies the client.
const FallbackClientIP = "127.0.0.1"

// ClientIP derives a best-effort client identifier from proxy headers.
// Priority: first X-Forwarded-For entry, X-Real-IP, CF-Connecting-IP.
// The value is spoofable and only used for rate limiting and audit fields.
func ClientIP(h http.Header) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(h.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if ip := strings.TrimSpace(h.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}
	return FallbackClientIP
}

// UserAgent returns the request user agent, or nil when the header is absent.
func UserAgent(r *http.Request) *string {
	ua := strings.TrimSpace(r.UserAgent())
	if ua == "" {
		return nil
	}
	return &ua
}
