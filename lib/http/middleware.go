package http

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzhttp"
	"github.com/legitscript/lspreview/fs"
)

var onlyOnceWarningAllowOrigin sync.Once

// MiddlewareCORS instantiates middleware that handles basic CORS protections
func MiddlewareCORS(allowOrigin string) Middleware {
	onlyOnceWarningAllowOrigin.Do(func() {
		if allowOrigin == "*" {
			fs.Logf(nil, "Warning: Allow origin set to *. This can cause serious security problems.")
		}
	})

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// skip cors for unix sockets
			if IsUnixSocket(r) {
				next.ServeHTTP(w, r)
				return
			}

			if allowOrigin != "" {
				w.Header().Add("Access-Control-Allow-Origin", allowOrigin)
				w.Header().Add("Access-Control-Allow-Headers", "Content-Type")
				w.Header().Add("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS, POST")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MiddlewareLog instantiates middleware that logs each request at
// INFO level with its status and duration.
//
// Requests arriving on a listener with a public URL are logged against
// the full URL so the listener which served them is visible.
func MiddlewareLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			what := r.URL.Path
			if publicURL := PublicURL(r); publicURL != "" {
				what = strings.TrimSuffix(publicURL, "/") + what
			}
			fs.Infof(what, "%s: %s %s %sB in %v", r.RemoteAddr, r.Method,
				fs.LogValue("status", status),
				fs.LogValue("bytes", ww.BytesWritten()),
				time.Since(start))
		})
	}
}

// MiddlewareCompress instantiates middleware that gzips responses for
// clients which send Accept-Encoding: gzip
func MiddlewareCompress() Middleware {
	return func(next http.Handler) http.Handler {
		return gzhttp.GzipHandler(next)
	}
}
