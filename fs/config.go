package fs

import (
	"context"
	"os"
)

// Global
var (
	// globalConfig for lspreview
	globalConfig = NewConfig()

	// Version of lspreview - set with -ldflags "-X ..." at build time
	Version = "v0.1.0-DEV"

	// Exit is called by Fatalf - replaced in tests
	Exit = os.Exit
)

// ConfigInfo is the logging config shared by all of lspreview
type ConfigInfo struct {
	LogLevel   LogLevel
	UseJSONLog bool
}

// NewConfig creates a new config with everything set to the default
// value.
func NewConfig() *ConfigInfo {
	c := new(ConfigInfo)
	c.LogLevel = LogLevelNotice
	return c
}

// GetConfig returns the config in use.
//
// lspreview runs a single server per process so there is only the
// global config to return.
func GetConfig(ctx context.Context) *ConfigInfo {
	return globalConfig
}
