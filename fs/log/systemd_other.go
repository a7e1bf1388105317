// Systemd interface for non-Unix variants only

//go:build windows || plan9 || js
// +build windows plan9 js

package log

import (
	"github.com/legitscript/lspreview/fs"
)

// startSystemdLog isn't supported here so just says so
func startSystemdLog(format int) {
	fs.Logf(nil, "--log-systemd not supported on this platform")
}
