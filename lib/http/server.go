// Package http provides a registration interface for http services
package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/legitscript/lspreview/fs"
	"github.com/legitscript/lspreview/lib/atexit"
	"github.com/spf13/pflag"
)

// Help returns text describing the http server to add to the command
// help.
func Help(prefix string) string {
	return `### Server options

Use --` + prefix + `server-read-timeout and --` + prefix + `server-write-timeout to
control the timeouts on the server.  Note that this is the total time
for a transfer.

--` + prefix + `max-header-bytes controls the maximum number of bytes the server will
accept in the HTTP header.

--` + prefix + `allow-origin sets the Access-Control-Allow-Origin header so a page
served from another origin can fetch the preview.

--` + prefix + `compress gzips responses for clients which accept it. Small
responses are sent as they are.

### Socket activation

If the process is started by systemd with listening sockets these
are used instead of the configured addresses.
`
}

// Middleware function signature required by chi.Router.Use()
type Middleware func(http.Handler) http.Handler

// Config contains options for the http Server
type Config struct {
	ListenAddr         []string      // Port to listen on
	ServerReadTimeout  time.Duration // Timeout for server reading data
	ServerWriteTimeout time.Duration // Timeout for server writing data
	MaxHeaderBytes     int           // Maximum size of request header
	AllowOrigin        string        // AllowOrigin sets the Access-Control-Allow-Origin header
	Compress           bool          // Compress responses for clients which accept gzip
}

// AddFlagsPrefix adds flags for the httplib
//
// The listen address is not added as each user of the server picks
// its own way of setting it.
func (cfg *Config) AddFlagsPrefix(flagSet *pflag.FlagSet, prefix string) {
	flagSet.DurationVarP(&cfg.ServerReadTimeout, prefix+"server-read-timeout", "", cfg.ServerReadTimeout, "Timeout for server reading data")
	flagSet.DurationVarP(&cfg.ServerWriteTimeout, prefix+"server-write-timeout", "", cfg.ServerWriteTimeout, "Timeout for server writing data")
	flagSet.IntVarP(&cfg.MaxHeaderBytes, prefix+"max-header-bytes", "", cfg.MaxHeaderBytes, "Maximum size of request header")
	flagSet.StringVarP(&cfg.AllowOrigin, prefix+"allow-origin", "", cfg.AllowOrigin, "Origin which cross-domain request (CORS) can be executed from")
	flagSet.BoolVarP(&cfg.Compress, prefix+"compress", "", cfg.Compress, "Gzip responses if the client accepts it")
}

// DefaultCfg is the default values used for Config
func DefaultCfg() Config {
	return Config{
		ListenAddr:         []string{"127.0.0.1:8080"},
		ServerReadTimeout:  1 * time.Hour,
		ServerWriteTimeout: 1 * time.Hour,
		MaxHeaderBytes:     4096,
	}
}

type instance struct {
	url        string
	listener   net.Listener
	httpServer *http.Server
}

func (s instance) serve(wg *sync.WaitGroup) {
	defer wg.Done()
	err := s.httpServer.Serve(s.listener)
	if err != http.ErrServerClosed && err != nil {
		fs.Logf(nil, "%s: unexpected error: %s", s.listener.Addr(), err.Error())
	}
}

// Server contains info about the running http server
type Server struct {
	wg           sync.WaitGroup
	mux          chi.Router
	instances    []instance
	cfg          Config
	atexitHandle atexit.FnHandle
}

// Option allows customizing the server
type Option func(*Server)

// WithConfig option applies the Config to the server, overriding defaults
func WithConfig(cfg Config) Option {
	return func(s *Server) {
		s.cfg = cfg
	}
}

// ErrNoListeners is returned if there is nothing for the server to listen on
var ErrNoListeners = errors.New("no addresses to listen on")

// For a given listener construct an instance.
// The url string ends up in the `url` field of the `instance`.
func newInstance(ctx context.Context, s *Server, listener net.Listener, url string) *instance {
	return &instance{
		url:      url,
		listener: listener,
		httpServer: &http.Server{
			Handler:           s.mux,
			ReadTimeout:       s.cfg.ServerReadTimeout,
			WriteTimeout:      s.cfg.ServerWriteTimeout,
			MaxHeaderBytes:    s.cfg.MaxHeaderBytes,
			ReadHeaderTimeout: 10 * time.Second, // time to send the headers
			IdleTimeout:       60 * time.Second, // time to keep idle connections open
			BaseContext:       NewBaseContext(ctx, url),
		},
	}
}

// NewServer instantiates a new http server using provided listeners and options
//
// A http server can listen using multiple listeners. For example, a
// listener for the loopback and one for a LAN address.
func NewServer(ctx context.Context, options ...Option) (*Server, error) {
	s := &Server{
		mux: chi.NewRouter(),
		cfg: DefaultCfg(),
	}

	for _, opt := range options {
		opt(s)
	}

	// Build base router
	s.mux.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	})
	s.mux.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
	})

	s.mux.Use(middleware.Recoverer)
	s.mux.Use(MiddlewareLog())
	s.mux.Use(MiddlewareCORS(s.cfg.AllowOrigin))
	if s.cfg.Compress {
		s.mux.Use(MiddlewareCompress())
	}

	// (Only) listen on FDs provided by the service manager, if any.
	sdListeners := getInheritedListeners()
	if len(sdListeners) != 0 {
		for _, listener := range sdListeners {
			url := fmt.Sprintf("http://%s/", listener.Addr().String())
			s.instances = append(s.instances, *newInstance(ctx, s, listener, url))
		}
		return s, nil
	}

	// Process all listeners specified in the CLI Args.
	for _, addr := range s.cfg.ListenAddr {
		var instance *instance

		if strings.HasPrefix(addr, "unix://") || filepath.IsAbs(addr) {
			addr = strings.TrimPrefix(addr, "unix://")

			listener, err := net.Listen("unix", addr)
			if err != nil {
				s.closeListeners()
				return nil, err
			}
			instance = newInstance(ctx, s, listener, addr)
		} else {
			// HTTP case
			addr = strings.TrimPrefix(addr, "http://")
			listener, err := net.Listen("tcp", addr)
			if err != nil {
				s.closeListeners()
				return nil, err
			}
			instance = newInstance(ctx, s, listener, fmt.Sprintf("http://%s/", listener.Addr().String()))
		}

		s.instances = append(s.instances, *instance)
	}

	if len(s.instances) == 0 {
		return nil, ErrNoListeners
	}

	return s, nil
}

// closeListeners closes any listeners opened so far
func (s *Server) closeListeners() {
	for _, ii := range s.instances {
		_ = ii.listener.Close()
	}
	s.instances = nil
}

// Serve starts the HTTP server on each listener
func (s *Server) Serve() {
	s.wg.Add(len(s.instances))
	for _, ii := range s.instances {
		fs.Debugf(nil, "listening on %s", ii.url)
		go ii.serve(&s.wg)
	}
	// Install an atexit handler to shutdown gracefully
	s.atexitHandle = atexit.Register(func() { _ = s.Shutdown() })
}

// Wait blocks while the server is serving requests
func (s *Server) Wait() {
	s.wg.Wait()
}

// Router returns the server base router
func (s *Server) Router() chi.Router {
	return s.mux
}

// Time to wait to Shutdown an HTTP server
const gracefulShutdownTime = 10 * time.Second

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown() error {
	// Stop the atexit handler
	if s.atexitHandle != nil {
		atexit.Unregister(s.atexitHandle)
		s.atexitHandle = nil
	}
	for _, ii := range s.instances {
		expiry := time.Now().Add(gracefulShutdownTime)
		ctx, cancel := context.WithDeadline(context.Background(), expiry)
		if err := ii.httpServer.Shutdown(ctx); err != nil {
			fs.Logf(nil, "error shutting down server: %s", err)
		}
		cancel()
		// in case Serve was never called
		_ = ii.listener.Close()
	}
	s.wg.Wait()
	return nil
}

// URLs returns all configured URLS
func (s *Server) URLs() []string {
	var out []string
	for _, ii := range s.instances {
		if ii.listener.Addr().Network() == "unix" {
			continue
		}
		out = append(out, ii.url)
	}
	return out
}
