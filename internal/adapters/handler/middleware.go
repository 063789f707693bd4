package handler

import (
	"net/http"
	"time"

	"bildstore/internal/core/domain"
	"bildstore/internal/core/port"

	"github.com/rs/zerolog/log"
)

const noSessionMessage = "You need a valid session to access this endpoint"

// RequireSession rejects requests without a valid session cookie before any
// pipeline code runs. denialContentType is the Content-Type declared on the
// 403 response; the body is always the JSON error envelope.
func RequireSession(verifier port.SessionVerifier, denialContentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(domain.SessionCookieName)
			if err != nil || !verifier.Verify(cookie.Value) {
				log.Debug().Str("path", r.URL.Path).Msg("rejecting request without valid session")
				writeErrorAs(w, http.StatusForbidden, denialContentType, noSessionMessage)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// RequestLogger emits one structured log event per request.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
