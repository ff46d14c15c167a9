package rest

import (
	"net/http"
	"time"

	"github.com/nDmitry/titckfeed/internal/app"
)

// Logger logs every request once it has been served
func Logger(next http.Handler) http.Handler {
	logger := app.Logger()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		lrw := &loggingResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(lrw, r)

		logger.Info("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"query", r.URL.RawQuery,
			"remote_addr", r.RemoteAddr,
			"status", lrw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"bytes", lrw.bytesWritten,
			"cache", lrw.Header().Get("X-CACHE-STATUS"),
		)
	})
}

// loggingResponseWriter captures the status code and response size
type loggingResponseWriter struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int64
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.statusCode = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	n, err := lrw.ResponseWriter.Write(b)
	lrw.bytesWritten += int64(n)
	return n, err
}

func (lrw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lrw.ResponseWriter
}
