// Package cmd implements the lspreview command
//
// It is in a sub package so it's internals can be re-used elsewhere
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/legitscript/lspreview/fs"
	"github.com/legitscript/lspreview/fs/config/configflags"
	fslog "github.com/legitscript/lspreview/fs/log"
	"github.com/legitscript/lspreview/fs/log/logflags"
	"github.com/legitscript/lspreview/lib/atexit"
	"github.com/legitscript/lspreview/lib/buildinfo"
	"github.com/legitscript/lspreview/lib/env"
	"github.com/legitscript/lspreview/lib/exitcode"
	libhttp "github.com/legitscript/lspreview/lib/http"
	"github.com/legitscript/lspreview/lib/metrics"
	"github.com/legitscript/lspreview/lib/systemd"
	"github.com/legitscript/lspreview/preview"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"
)

// Globals
var (
	// Flags
	opt         = preview.DefaultOpt()
	version     bool
	openBrowser bool

	// signalled reports whether lspreview is exiting on a signal
	signalled = atexit.Signalled
)

// usageError marks an error caused by the command line
type usageError struct {
	error
}

func (e usageError) Unwrap() error {
	return e.error
}

// ShowVersion prints the version to stdout
func ShowVersion() {
	osVersion, osKernel := buildinfo.GetOSVersion()
	linking, tagString := buildinfo.GetLinkingAndTags()

	fmt.Printf("lspreview %s\n", fs.Version)
	fmt.Printf("- os/version: %s\n", osVersion)
	fmt.Printf("- os/kernel: %s\n", osKernel)
	fmt.Printf("- os/type: %s\n", runtime.GOOS)
	fmt.Printf("- os/arch: %s\n", runtime.GOARCH)
	fmt.Printf("- go/version: %s\n", runtime.Version())
	fmt.Printf("- go/linking: %s\n", linking)
	fmt.Printf("- go/tags: %s\n", tagString)
}

// Root is the main lspreview command
var Root = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "lspreview",
		Short: "Preview a build of the LegitScript editor.",
		Long: `
lspreview serves a local build of the LegitScript editor as it would be
served in production.

Files from <base>/dist/<sdir> are served under /` + preview.Namespace + `/
and every other request is redirected to ` + preview.IndexURL + `.

If a directory is requested and it contains an index.html then that is
served instead.

` + libhttp.Help("") + `
### Metrics

Use --metrics-addr to serve prometheus metrics at /metrics on a
separate address. The --metrics- prefixed server flags control that
server.

--base and --log-file may use ~ and environment variables.
` + env.ShellExpandHelp + `
`,
		Args: func(command *cobra.Command, args []string) error {
			if err := cobra.NoArgs(command, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		PersistentPreRunE: func(command *cobra.Command, args []string) error {
			return initConfig(command.Flags())
		},
		RunE: func(command *cobra.Command, args []string) error {
			if version {
				ShowVersion()
				return nil
			}
			return run(context.Background(), opt)
		},
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetFlagErrorFunc(func(command *cobra.Command, err error) error {
		return usageError{err}
	})

	flagSet := root.Flags()
	preview.AddFlags(flagSet, &opt)
	flagSet.BoolVarP(&version, "version", "V", false, "Print the version number")
	flagSet.BoolVarP(&openBrowser, "open", "", false, "Open the entry page in a browser once serving")
	metrics.AddFlags(flagSet)

	persistent := root.PersistentFlags()
	configflags.AddFlags(fs.GetConfig(context.Background()), persistent)
	logflags.AddFlags(persistent)

	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: `Show the version number.`,
		Long: `Show the lspreview version number, the go version, the build
target OS and architecture, the runtime OS and kernel version and
bitness, build tags and the type of executable (static or dynamic).

For example:

    $ lspreview version
    lspreview v0.1.0
    - os/version: ubuntu 22.04 (64 bit)
    - os/kernel: 5.15.0-91-generic (x86_64)
    - os/type: linux
    - os/arch: amd64
    - go/version: go1.21.0
    - go/linking: static
    - go/tags: none
`,
		Args: func(command *cobra.Command, args []string) error {
			if err := cobra.NoArgs(command, args); err != nil {
				return usageError{err}
			}
			return nil
		},
		Run: func(command *cobra.Command, args []string) {
			ShowVersion()
		},
	}
}

// initConfig is run by cobra after initialising the flags
func initConfig(flagSet *pflag.FlagSet) error {
	ci := fs.GetConfig(context.Background())

	// Finish parsing any command line flags
	if err := configflags.SetFlags(ci, flagSet); err != nil {
		return usageError{err}
	}

	// Start the logger
	if err := fslog.InitLogging(); err != nil {
		return usageError{err}
	}

	// Write the args for debug purposes
	fs.Debugf("lspreview", "Version %q starting with parameters %q", fs.Version, os.Args)
	return nil
}

// newRegistry makes the prometheus registry with the preview
// counters and the process metrics
func newRegistry(m *metrics.Metrics) (*prometheus.Registry, error) {
	registry := prometheus.NewRegistry()
	if err := m.Register(registry); err != nil {
		return nil, err
	}
	for _, c := range []prometheus.Collector{
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	} {
		if err := registry.Register(c); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// run the preview server until it is stopped
func run(ctx context.Context, opt preview.Options) error {
	opt.Base = env.ShellExpand(opt.Base)

	m := metrics.NewMetrics("lspreview")
	registry, err := newRegistry(m)
	if err != nil {
		return fmt.Errorf("failed to register metrics: %w", err)
	}
	ms, err := metrics.Start(ctx, &metrics.Opt, registry)
	if err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}
	if ms != nil {
		atexit.Register(func() { _ = ms.Shutdown() })
	}

	s, err := preview.New(ctx, opt, m)
	if err != nil {
		if ms != nil {
			_ = ms.Shutdown()
		}
		return fmt.Errorf("failed to start preview server: %w", err)
	}
	s.Serve()
	showHint(s.URLs())
	if openBrowser {
		openIndex(s.URLs())
	}

	defer systemd.Notify()()
	if err := systemd.UpdateStatus("Serving " + s.Root()); err != nil {
		fs.Debugf(nil, "failed to update systemd status: %v", err)
	}
	var g errgroup.Group
	g.Go(func() error {
		s.Wait()
		return nil
	})
	if ms != nil {
		g.Go(func() error {
			ms.Wait()
			return nil
		})
	}
	return g.Wait()
}

// openIndex opens the entry page in the default browser
func openIndex(urls []string) {
	if len(urls) == 0 {
		fs.Logf(nil, "Not opening browser as not listening on a URL")
		return
	}
	openURL := indexURL(urls[0])
	if flag.Lookup("test.v") != nil {
		fs.Logf(nil, "Not opening browser when testing. Navigate to %s to use.", openURL)
		return
	}
	if err := open.Start(openURL); err != nil {
		fs.Errorf(nil, "Failed to open browser: %v. Manually access it at: %s", err, openURL)
	}
}

// showHint tells someone at a terminal where to point their browser
func showHint(urls []string) {
	if color.NoColor || len(urls) == 0 {
		return
	}
	hint := color.New(color.FgGreen, color.Bold)
	_, _ = hint.Fprintf(color.Output, "Open %s in a browser - press Ctrl-C to stop\n", indexURL(urls[0]))
}

// indexURL returns the entry page for the server at url, swapping
// a wildcard listen address for one a browser can reach
func indexURL(url string) string {
	for _, wildcard := range []string{"//0.0.0.0:", "//[::]:"} {
		url = strings.Replace(url, wildcard, "//localhost:", 1)
	}
	return url + preview.IndexURL[1:]
}

// exitCodeFor returns the exit code lspreview should use for err
func exitCodeFor(err error) int {
	var usageErr usageError
	switch {
	case err == nil:
		return exitcode.Success
	case errors.As(err, &usageErr):
		return exitcode.UsageError
	default:
		return exitcode.UncategorizedError
	}
}

func resolveExitCode(err error) {
	atexit.Run()
	if err != nil && !signalled() {
		fs.Errorf(nil, "Fatal error: %v", err)
		var usageErr usageError
		if errors.As(err, &usageErr) {
			Root.PrintErrf("Run '%s --help' for usage.\n", Root.CommandPath())
		}
	}
	fs.Exit(exitCodeFor(err))
}

// Main runs lspreview interpreting flags and commands out of os.Args
func Main() {
	resolveExitCode(Root.Execute())
}
