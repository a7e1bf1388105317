// Package serve deals with serving files from the local disk over HTTP
package serve

import (
	"io"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/legitscript/lspreview/fs"
)

// Error reports the error, logging it and returning a 500 error
func Error(what interface{}, w http.ResponseWriter, text string, err error) {
	fs.Errorf(what, "%s: %v", text, err)
	http.Error(w, text+".", http.StatusInternalServerError)
}

// NotFound logs why the file was missing and returns a 404 with the
// plain text body "File not found"
func NotFound(what interface{}, w http.ResponseWriter, err error) {
	fs.Errorf(what, "File not found: %v", err)
	h := w.Header()
	h.Del("Content-Length")
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	_, _ = io.WriteString(w, "File not found")
}

// Object serves the file at osPath on the local disk as remote.
//
// It returns the number of body bytes written, which is 0 for HEAD and
// 304 responses and the range length for 206 responses, or -1 if the
// file wasn't served.
func Object(w http.ResponseWriter, r *http.Request, remote, osPath string) int64 {
	if r.Method != "GET" && r.Method != "HEAD" {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return -1
	}

	// open the object
	in, err := os.Open(osPath)
	if err != nil {
		Error(remote, w, "Failed to open file", err)
		return -1
	}
	defer func() {
		err := in.Close()
		if err != nil {
			fs.Errorf(remote, "Failed to close file: %v", err)
		}
	}()
	fi, err := in.Stat()
	if err != nil {
		Error(remote, w, "Failed to stat file", err)
		return -1
	}
	if fi.IsDir() {
		Error(remote, w, "Failed to open file", fs.ErrorIsDir)
		return -1
	}

	// Set content type
	mimeType := fs.MimeType(remote, func() (io.ReadCloser, error) {
		return os.Open(osPath)
	})
	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Accept-Ranges", "bytes")

	fs.Debugf(remote, "%s: Serving %s as %q%v", r.RemoteAddr, osPath, mimeType, fs.LogValueHide("size", fi.Size()))

	// Serve the file - this deals with HEAD, ranges and conditional requests
	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
	http.ServeContent(ww, r, remote, fi.ModTime(), in)
	return int64(ww.BytesWritten())
}
