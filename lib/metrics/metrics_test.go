package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsNil(t *testing.T) {
	var m *Metrics
	assert.Nil(t, m.Collectors())
	m.Request(OutcomeRedirect)
	m.Served(100)
}

func TestMetricsCount(t *testing.T) {
	m := NewMetrics("test")
	registry := prometheus.NewRegistry()
	require.NoError(t, m.Register(registry))

	m.Request(OutcomeRedirect)
	m.Request(OutcomeRedirect)
	m.Request(OutcomeNotFound)
	m.Served(10)
	m.Served(0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeRedirect)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeNotFound)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeServed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.Requests.WithLabelValues(OutcomeError)))
	assert.Equal(t, 10.0, testutil.ToFloat64(m.ServedBytes))

	// all outcomes are present from the start
	assert.Equal(t, 4, testutil.CollectAndCount(m.Requests))
}

func TestMetricsRegisterTwice(t *testing.T) {
	registry := prometheus.NewRegistry()
	require.NoError(t, NewMetrics("test").Register(registry))
	assert.Error(t, NewMetrics("test").Register(registry))
}

func TestStartDisabled(t *testing.T) {
	opt := DefaultOpt()
	s, err := Start(context.Background(), &opt, prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestStart(t *testing.T) {
	m := NewMetrics("lspreview")
	registry := prometheus.NewRegistry()
	require.NoError(t, m.Register(registry))
	m.Served(42)

	opt := DefaultOpt()
	opt.HTTP.ListenAddr = []string{"127.0.0.1:0"}
	s, err := Start(context.Background(), &opt, registry)
	require.NoError(t, err)
	require.NotNil(t, s)
	defer func() {
		require.NoError(t, s.Shutdown())
	}()

	urls := s.URLs()
	require.Len(t, urls, 1)
	resp, err := http.Get(urls[0] + "metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `lspreview_requests_total{outcome="served"} 1`)
	assert.Contains(t, string(body), `lspreview_served_bytes_total 42`)
}

func TestAddFlags(t *testing.T) {
	oldOpt := Opt
	defer func() { Opt = oldOpt }()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(flagSet)
	require.NoError(t, flagSet.Parse([]string{"--metrics-addr", ":9000", "--metrics-addr", "localhost:9001"}))
	assert.Equal(t, []string{":9000", "localhost:9001"}, Opt.HTTP.ListenAddr)
	assert.True(t, Opt.Enabled())
	assert.NotNil(t, flagSet.Lookup("metrics-server-read-timeout"))
}
