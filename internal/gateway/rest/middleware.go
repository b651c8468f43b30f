package rest

import (
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/matyusmilan/xm-forex/pkg/errors"
	"github.com/matyusmilan/xm-forex/pkg/logger"
	"github.com/matyusmilan/xm-forex/pkg/util"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags the request context with an id, taking the caller's
// X-Request-Id header when present and generating one otherwise. The id
// is echoed on the response header and picked up by every log line
// written through the context logger methods.
func RequestID(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		ctx := util.WithRequestID(r.Context(), r.Header.Get(requestIDHeader))
		w.Header().Set(requestIDHeader, util.GetRequestID(ctx))

		next.ServeHTTP(w, r.WithContext(ctx))
	}

	return http.HandlerFunc(fn)
}

// RequestLogger writes one info line per served request.
func RequestLogger(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "Request served",
				logger.Field{Key: "method", Value: r.Method},
				logger.Field{Key: "path", Value: r.URL.Path},
				logger.Field{Key: "status", Value: ww.Status()},
				logger.Field{Key: "duration", Value: time.Since(start).String()},
			)
		}

		return http.HandlerFunc(fn)
	}
}

// Recoverer converts a handler panic into a 500 response instead of
// killing the connection, and logs the panic value.
func Recoverer(log logger.Interface) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.ErrorContext(r.Context(),
						errors.NewTracer("panic serving request"),
						logger.Field{Key: "panic", Value: rec},
						logger.Field{Key: "path", Value: r.URL.Path},
					)
					writeJSON(r.Context(), w, log, http.StatusInternalServerError, errorResponse{
						Code:    string(errors.GeneralInternalServerError),
						Message: "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}

// Latency delays each request by a uniformly random duration between min
// and max, mimicking venue processing time.
func Latency(min, max time.Duration) func(http.Handler) http.Handler {
	if max < min {
		min, max = max, min
	}

	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			delay := min
			if max > min {
				delay += rand.N(max - min)
			}
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-r.Context().Done():
				}
			}

			next.ServeHTTP(w, r)
		}

		return http.HandlerFunc(fn)
	}
}
