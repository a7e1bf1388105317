package configflags

import (
	"testing"

	"github.com/legitscript/lspreview/fs"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFlags(t *testing.T) {
	for _, test := range []struct {
		args    []string
		want    fs.LogLevel
		wantErr string
	}{
		{nil, fs.LogLevelNotice, ""},
		{[]string{"-v"}, fs.LogLevelInfo, ""},
		{[]string{"-vv"}, fs.LogLevelDebug, ""},
		{[]string{"-v", "-v", "-v"}, fs.LogLevelDebug, ""},
		{[]string{"-q"}, fs.LogLevelError, ""},
		{[]string{"--log-level", "DEBUG"}, fs.LogLevelDebug, ""},
		{[]string{"--log-level", "ERROR"}, fs.LogLevelError, ""},
		{[]string{"-v", "-q"}, 0, "can't set -v and -q"},
		{[]string{"-v", "--log-level", "INFO"}, 0, "can't set -v and --log-level"},
		{[]string{"-q", "--log-level", "INFO"}, 0, "can't set -q and --log-level"},
	} {
		ci := fs.NewConfig()
		flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
		AddFlags(ci, flagSet)
		require.NoError(t, flagSet.Parse(test.args), test.args)
		err := SetFlags(ci, flagSet)
		if test.wantErr != "" {
			assert.EqualError(t, err, test.wantErr, test.args)
			continue
		}
		require.NoError(t, err, test.args)
		assert.Equal(t, test.want, ci.LogLevel, test.args)
	}
}

func TestUseJSONLog(t *testing.T) {
	ci := fs.NewConfig()
	flagSet := pflag.NewFlagSet("test", pflag.ContinueOnError)
	AddFlags(ci, flagSet)
	require.NoError(t, flagSet.Parse([]string{"--use-json-log"}))
	assert.True(t, ci.UseJSONLog)
}
