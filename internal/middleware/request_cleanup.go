package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes covers the largest request body (a goals/progress or generate payload) many times over.
const DefaultMaxBodyBytes = 1 << 20

// DrainAndCloseRequest caps the request body at maxBytes, then drains and closes it after the handler returns.
func DrainAndCloseRequest(maxBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil && maxBytes > 0 {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
