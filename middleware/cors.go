package middleware

import (
	"net/http"
	"strings"
)

// CORSMiddleware allows cross-origin requests from the configured origin
// patterns. An empty pattern list allows any origin (development default).
func CORSMiddleware(allowedOrigins []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && OriginAllowed(origin, allowedOrigins) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Admin-Token")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// OriginAllowed reports whether an origin matches any configured pattern.
// Patterns are exact strings or contain a single "*" wildcard
// (e.g. "https://*.resumecast.io").
func OriginAllowed(origin string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if matchOrigin(origin, pattern) {
			return true
		}
	}
	return false
}

func matchOrigin(origin, pattern string) bool {
	if pattern == "*" || pattern == origin {
		return true
	}
	i := strings.Index(pattern, "*")
	if i < 0 {
		return false
	}
	prefix, suffix := pattern[:i], pattern[i+1:]
	return len(origin) > len(prefix)+len(suffix) &&
		strings.HasPrefix(origin, prefix) &&
		strings.HasSuffix(origin, suffix)
}
