package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"strconv"
	"testing"

	"github.com/legitscript/lspreview/fs"
	fslog "github.com/legitscript/lspreview/fs/log"
	"github.com/legitscript/lspreview/lib/exitcode"
	"github.com/legitscript/lspreview/lib/metrics"
	"github.com/legitscript/lspreview/preview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs a fresh root command with args
func execute(t *testing.T, args ...string) error {
	ci := fs.GetConfig(context.Background())
	oldLevel := ci.LogLevel
	oldOpt := opt
	oldLogOpt := fslog.Opt
	oldMetricsOpt := metrics.Opt
	t.Cleanup(func() {
		ci.LogLevel = oldLevel
		opt = oldOpt
		fslog.Opt = oldLogOpt
		metrics.Opt = oldMetricsOpt
		version = false
	})
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

// captureStdout returns what fn writes to stdout
func captureStdout(t *testing.T, fn func()) string {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	oldStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = oldStdout }()
	fn()
	require.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

func TestExitCodeFor(t *testing.T) {
	for _, test := range []struct {
		err  error
		want int
	}{
		{nil, exitcode.Success},
		{usageError{errors.New("bad flag")}, exitcode.UsageError},
		{fmt.Errorf("wrapped: %w", usageError{errors.New("bad flag")}), exitcode.UsageError},
		{errors.New("bind: address already in use"), exitcode.UncategorizedError},
	} {
		assert.Equal(t, test.want, exitCodeFor(test.err), fmt.Sprint(test.err))
	}
}

func TestUsageErrors(t *testing.T) {
	for _, args := range [][]string{
		{"--sdir", "foo"},
		{"--port", "potato"},
		{"--no-such-flag"},
		{"-v", "-q"},
		{"-q", "--log-level", "DEBUG"},
		{"--log-format", "potato"},
		{"unexpected"},
		{"version", "unexpected"},
	} {
		err := execute(t, args...)
		require.Error(t, err, args)
		assert.Equal(t, exitcode.UsageError, exitCodeFor(err), args)
	}
}

func TestFlagDefaults(t *testing.T) {
	root := newRootCmd()
	flags := root.Flags()
	for name, want := range map[string]string{
		"host":                 "0.0.0.0",
		"port":                 "8000",
		"sdir":                 "prod",
		"base":                 ".",
		"server-read-timeout":  "1h0m0s",
		"server-write-timeout": "1h0m0s",
		"max-header-bytes":     "4096",
		"allow-origin":         "",
		"metrics-addr":         "[]",
		"version":              "false",
		"log-level":            "NOTICE",
		"log-format":           "date,time",
	} {
		flag := flags.Lookup(name)
		if !assert.NotNil(t, flag, name) {
			continue
		}
		assert.Equal(t, want, flag.DefValue, name)
	}
	assert.Equal(t, "V", flags.Lookup("version").Shorthand)
	assert.Equal(t, "v", flags.Lookup("verbose").Shorthand)
	assert.Equal(t, "q", flags.Lookup("quiet").Shorthand)
}

func TestFlagsParsed(t *testing.T) {
	root := newRootCmd()
	t.Cleanup(func() { opt = preview.DefaultOpt() })
	require.NoError(t, root.ParseFlags([]string{"--host", "127.0.0.1", "--port", "9000", "--sdir", "dev"}))
	assert.Equal(t, "127.0.0.1:9000", opt.Addr())
	assert.Equal(t, preview.SourceDirDev, opt.SourceDir)
}

func TestShowVersion(t *testing.T) {
	out := captureStdout(t, ShowVersion)
	assert.Contains(t, out, "lspreview "+fs.Version+"\n")
	assert.Contains(t, out, "- os/type: ")
	assert.Contains(t, out, "- go/version: ")
}

func TestVersion(t *testing.T) {
	for _, args := range [][]string{{"version"}, {"--version"}, {"-V"}} {
		var err error
		out := captureStdout(t, func() {
			err = execute(t, args...)
		})
		require.NoError(t, err, args)
		assert.Contains(t, out, "lspreview "+fs.Version, args)
	}
}

func TestBindFailure(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = l.Close() }()
	_, port, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	_, err = strconv.Atoi(port)
	require.NoError(t, err)

	err = execute(t, "--host", "127.0.0.1", "--port", port, "--base", t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start preview server")
	assert.Equal(t, exitcode.UncategorizedError, exitCodeFor(err))
}

func TestIndexURL(t *testing.T) {
	for _, test := range []struct {
		in   string
		want string
	}{
		{"http://127.0.0.1:8000/", "http://127.0.0.1:8000/LegitScriptEditor/index.html"},
		{"http://0.0.0.0:8000/", "http://localhost:8000/LegitScriptEditor/index.html"},
		{"http://[::]:8000/", "http://localhost:8000/LegitScriptEditor/index.html"},
	} {
		assert.Equal(t, test.want, indexURL(test.in), test.in)
	}
}

func TestOpenIndexWhenTesting(t *testing.T) {
	// must not start a browser under go test
	openIndex([]string{"http://127.0.0.1:8000/"})
	openIndex(nil)
}

func TestResolveExitCode(t *testing.T) {
	oldExit, oldSignalled := fs.Exit, signalled
	defer func() { fs.Exit, signalled = oldExit, oldSignalled }()
	var code int
	fs.Exit = func(c int) { code = c }

	capture := func(fn func()) string {
		var buf bytes.Buffer
		log.SetOutput(&buf)
		defer log.SetOutput(os.Stderr)
		fn()
		return buf.String()
	}

	signalled = func() bool { return false }
	out := capture(func() { resolveExitCode(nil) })
	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, "", out)

	out = capture(func() { resolveExitCode(errors.New("listen tcp: boom")) })
	assert.Equal(t, exitcode.UncategorizedError, code)
	assert.Contains(t, out, "Fatal error: listen tcp: boom")

	// Shutting down on a signal closes the listeners which isn't fatal
	signalled = func() bool { return true }
	out = capture(func() { resolveExitCode(errors.New("listener closed")) })
	assert.Equal(t, exitcode.UncategorizedError, code)
	assert.NotContains(t, out, "Fatal error")
}
