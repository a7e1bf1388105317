package metrics

import (
	"context"
	"fmt"

	"github.com/legitscript/lspreview/fs"
	libhttp "github.com/legitscript/lspreview/lib/http"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
)

const path = "/metrics"

// Options holds the configuration for the metrics server
type Options struct {
	HTTP libhttp.Config
}

// DefaultOpt is the default values used for Options
//
// The metrics server is off unless an address is given.
func DefaultOpt() Options {
	opt := Options{HTTP: libhttp.DefaultCfg()}
	opt.HTTP.ListenAddr = nil
	return opt
}

// Opt is the options set by the command line flags
var Opt = DefaultOpt()

// AddFlags adds the metrics flags to the flagSet
func AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringArrayVarP(&Opt.HTTP.ListenAddr, "metrics-addr", "", Opt.HTTP.ListenAddr, "IPaddress:Port or :Port to bind metrics server to")
	Opt.HTTP.AddFlagsPrefix(flagSet, "metrics-")
}

// Enabled returns whether the metrics server is configured
func (opt *Options) Enabled() bool {
	return len(opt.HTTP.ListenAddr) > 0
}

// Server serves the metrics of a registry
type Server struct {
	server *libhttp.Server
}

// Start the metrics server if configured
//
// If the server wasn't configured the *Server returned will be nil
func Start(ctx context.Context, opt *Options, gatherer prometheus.Gatherer) (*Server, error) {
	if !opt.Enabled() {
		return nil, nil
	}
	s, err := newServer(ctx, opt, gatherer)
	if err != nil {
		return nil, err
	}
	s.server.Serve()
	for _, url := range s.server.URLs() {
		fs.Logf(nil, "Serving metrics on %s", url+path[1:])
	}
	return s, nil
}

func newServer(ctx context.Context, opt *Options, gatherer prometheus.Gatherer) (*Server, error) {
	server, err := libhttp.NewServer(ctx, libhttp.WithConfig(opt.HTTP))
	if err != nil {
		return nil, fmt.Errorf("failed to init metrics server: %w", err)
	}
	server.Router().Get(path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}).ServeHTTP)
	return &Server{server: server}, nil
}

// URLs returns the URLs the metrics are served on
func (s *Server) URLs() []string {
	return s.server.URLs()
}

// Wait blocks until the metrics server is shut down
func (s *Server) Wait() {
	s.server.Wait()
}

// Shutdown the metrics server
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}
