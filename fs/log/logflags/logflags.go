// Package logflags implements command line flags to set up the log
package logflags

import (
	"github.com/legitscript/lspreview/fs/log"
	"github.com/spf13/pflag"
)

// AddFlags adds the log flags to the flagSet
func AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&log.Opt.File, "log-file", "", log.Opt.File, "Log everything to this file")
	flagSet.StringVarP(&log.Opt.MaxSize, "log-file-max-size", "", log.Opt.MaxSize, "Maximum size of the log file before it's rotated (e.g. \"10M\")")
	flagSet.IntVarP(&log.Opt.MaxBackups, "log-file-max-backups", "", log.Opt.MaxBackups, "Maximum number of old log files to retain")
	flagSet.DurationVarP(&log.Opt.MaxAge, "log-file-max-age", "", log.Opt.MaxAge, "Maximum duration to retain old log files (e.g. \"168h\")")
	flagSet.BoolVarP(&log.Opt.Compress, "log-file-compress", "", log.Opt.Compress, "If set, compress rotated log files using gzip")
	flagSet.StringVarP(&log.Opt.Format, "log-format", "", log.Opt.Format, "Comma separated list of log format options")
	flagSet.BoolVarP(&log.Opt.LogSystemd, "log-systemd", "", log.Opt.LogSystemd, "Activate systemd integration for the logger")
}
