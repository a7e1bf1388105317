// Package preview implements the static redirect server which serves
// a build of the editor under its Namespace and sends every other
// request to the entry page.
package preview

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/legitscript/lspreview/fs"
	libhttp "github.com/legitscript/lspreview/lib/http"
	"github.com/legitscript/lspreview/lib/http/serve"
	"github.com/legitscript/lspreview/lib/metrics"
)

// Server serves a build of the editor
type Server struct {
	opt     Options
	root    string
	server  *libhttp.Server
	metrics *metrics.Metrics
}

// New makes a preview server listening on the address in opt.
//
// m may be nil if metrics aren't wanted.
func New(ctx context.Context, opt Options, m *metrics.Metrics) (*Server, error) {
	root, err := filepath.Abs(opt.SourceDirectory())
	if err != nil {
		return nil, fmt.Errorf("failed to find source directory: %w", err)
	}
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		fs.Logf(root, "Source %v - is the project built?", fs.ErrorDirNotFound)
	}

	s := &Server{
		opt:     opt,
		root:    root,
		metrics: m,
	}

	cfg := opt.HTTP
	cfg.ListenAddr = []string{opt.Addr()}
	s.server, err = libhttp.NewServer(ctx, libhttp.WithConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to init server: %w", err)
	}
	s.bind(s.server.Router())
	return s, nil
}

// bind the routes in priority order root, namespace then catch-all
func (s *Server) bind(router chi.Router) {
	router.Use(middleware.GetHead)
	router.Get("/", s.redirect)
	router.Post("/", s.redirect)
	router.Route("/"+Namespace, func(r chi.Router) {
		r.Use(middleware.GetHead)
		r.Get("/*", s.serveFile)
	})
	router.Get("/*", s.redirect)
	router.Post("/*", s.redirect)
}

// redirect sends the client to the entry page
func (s *Server) redirect(w http.ResponseWriter, r *http.Request) {
	s.metrics.Request(metrics.OutcomeRedirect)
	fs.Debugf(r.URL.Path, "redirecting to %s", IndexURL)
	http.Redirect(w, r, IndexURL, http.StatusFound)
}

// serveFile serves the file under the Namespace
func (s *Server) serveFile(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/"+Namespace)
	rel = strings.TrimPrefix(rel, "/")

	osPath, err := resolve(s.root, rel)
	switch {
	case err == nil:
	case errors.Is(err, fs.ErrorObjectNotFound), errors.Is(err, ErrorOutsideRoot):
		s.metrics.Request(metrics.OutcomeNotFound)
		serve.NotFound(r.URL.Path, w, err)
		return
	default:
		s.metrics.Request(metrics.OutcomeError)
		serve.Error(r.URL.Path, w, "Failed to find file", err)
		return
	}

	remote, err := filepath.Rel(s.root, osPath)
	if err != nil {
		remote = filepath.Base(osPath)
	}
	n := serve.Object(w, r, filepath.ToSlash(remote), osPath)
	if n < 0 {
		s.metrics.Request(metrics.OutcomeError)
		return
	}
	s.metrics.Served(n)
}

// Serve starts the server and logs where the files are served
func (s *Server) Serve() {
	s.server.Serve()
	for _, url := range s.server.URLs() {
		fs.Logf(nil, "Serving %q on %s", s.root, url)
	}
}

// Wait blocks until the server is shut down
func (s *Server) Wait() {
	s.server.Wait()
}

// Shutdown the server gracefully
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// URLs returns the URLs the server is listening on
func (s *Server) URLs() []string {
	return s.server.URLs()
}

// Root returns the absolute path of the directory being served
func (s *Server) Root() string {
	return s.root
}
