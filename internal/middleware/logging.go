package middleware

import (
	"net/http"

	"github.com/2beens/repit/pkg"

	log "github.com/sirupsen/logrus"
)

// LogRequest traces every request with its route name, which is known
// because the middleware runs after mux matched the route.
func LogRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if log.IsLevelEnabled(log.TraceLevel) {
				ip, _ := pkg.ReadUserIP(r)
				log.WithFields(log.Fields{
					"method": r.Method,
					"path":   r.URL.Path,
					"route":  routeName(r),
					"ip":     ip,
					"ua":     r.Header.Get("User-Agent"),
				}).Trace(" ====> request")
			}
			next.ServeHTTP(w, r)
		})
	}
}
