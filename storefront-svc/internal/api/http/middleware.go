package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	SessionHeader = "X-Session-ID"
	UserHeader    = "X-User-ID"
)

type ctxKey int

const sessionKey ctxKey = iota

type StatusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *StatusRecorder) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

func (w *StatusRecorder) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Unwrap lets http.ResponseController reach Flush on the wrapped writer.
func (w *StatusRecorder) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// SessionMiddleware resolves the storefront session from the X-Session-ID
// header, or the "session" query parameter for EventSource clients. A
// missing or malformed id is replaced by a fresh one, echoed back in the
// response header.
func SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := r.Header.Get(SessionHeader)
		if session == "" {
			session = r.URL.Query().Get("session")
		}
		if _, err := uuid.Parse(session); err != nil {
			session = uuid.NewString()
		}
		w.Header().Set(SessionHeader, session)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey, session)))
	})
}

func Session(r *http.Request) string {
	session, _ := r.Context().Value(sessionKey).(string)
	return session
}

// UserID is the authenticated user injected by the gateway, empty for
// anonymous requests.
func UserID(r *http.Request) string {
	return r.Header.Get(UserHeader)
}

// LoggerMiddleware logs every request once it completes and turns panics
// into a 500.
func LoggerMiddleware(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			recorder := &StatusRecorder{ResponseWriter: w}

			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Str("session", recorder.Header().Get(SessionHeader)).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Str("error", fmt.Sprint(rec)).
						Msg("request panicked")
					writeError(recorder, http.StatusInternalServerError, "Internal server error")
				}
			}()

			next.ServeHTTP(recorder, r)

			logger.Info().
				Str("session", recorder.Header().Get(SessionHeader)).
				Str("user_id", UserID(r)).
				Str("method", r.Method).
				Str("url", r.URL.String()).
				Int("status", recorder.Status()).
				Msg("request completed")
		})
	}
}
