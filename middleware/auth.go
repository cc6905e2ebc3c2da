package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log"
	"net/http"
)

// AdminAuthMiddleware guards an endpoint behind the X-Admin-Token header.
// The comparison is constant-time.
func AdminAuthMiddleware(adminToken string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Admin-Token")
		if adminToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
			log.Printf("AUTH DENIED: bad admin token from %s", ClientIP(r))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "Unauthorized"})
			return
		}
		next(w, r)
	}
}
