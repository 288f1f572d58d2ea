package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestLogger assigns each request a correlation id and logs method,
// path, and duration. The id is echoed in the X-Request-ID header so
// client reports can be matched against server logs.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-ID", requestID)

		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s (%s)", requestID, r.Method, r.URL.Path, time.Since(start))
	})
}
