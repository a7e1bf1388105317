// Systemd interface for Unix variants only

//go:build !windows && !plan9 && !js
// +build !windows,!plan9,!js

package log

import (
	"fmt"
	"log"

	sysdjournald "github.com/iguanesolutions/go-systemd/v5/journald"
	"github.com/legitscript/lspreview/fs"
)

// startSystemdLog prefixes each line with the level in the form
// journald understands. The journal adds its own timestamps.
func startSystemdLog(format int) {
	log.SetFlags(stdFlags(format & (logFormatLongFile | logFormatShortFile)))
	fs.LogPrint = func(level fs.LogLevel, text string) {
		text = fmt.Sprintf("%s%-6s: %s", systemdLogPrefix(level), level, text)
		_ = log.Output(4, text)
	}
}

var logLevelToSystemdPrefix = []string{
	fs.LogLevelEmergency: sysdjournald.EmergPrefix,
	fs.LogLevelAlert:     sysdjournald.AlertPrefix,
	fs.LogLevelCritical:  sysdjournald.CritPrefix,
	fs.LogLevelError:     sysdjournald.ErrPrefix,
	fs.LogLevelWarning:   sysdjournald.WarningPrefix,
	fs.LogLevelNotice:    sysdjournald.NoticePrefix,
	fs.LogLevelInfo:      sysdjournald.InfoPrefix,
	fs.LogLevelDebug:     sysdjournald.DebugPrefix,
}

func systemdLogPrefix(l fs.LogLevel) string {
	if l >= fs.LogLevel(len(logLevelToSystemdPrefix)) {
		return ""
	}
	return logLevelToSystemdPrefix[l]
}
