package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/hostile-planets/internal/logger"
	"github.com/rs/zerolog"
)

// withLogging writes one line per request. Server errors log at error level,
// client errors at warn. An upgraded game session logs when it ends, so its
// duration is the session length.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w}

		next.ServeHTTP(rw, r)

		log := logger.FromRequest(r)
		var event *zerolog.Event
		switch {
		case rw.status >= http.StatusInternalServerError:
			event = log.Error()
		case rw.status >= http.StatusBadRequest:
			event = log.Warn()
		case rw.status == http.StatusSwitchingProtocols:
			event = log.Info().Bool("session", true)
		default:
			event = log.Info()
		}

		event.
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", rw.status).
			Int("size", rw.size).
			Dur("duration", time.Since(start)).
			Send()
	})
}
