// Package log provides logging for lspreview
package log

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/legitscript/lspreview/fs"
	"github.com/legitscript/lspreview/lib/env"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options contains options for controlling the logging
type Options struct {
	File       string        // Log everything to this file
	MaxSize    string        // Max size of log file before rotation, e.g. "10M"
	MaxBackups int           // Max backups of log file
	MaxAge     time.Duration // Max age of of log file
	Compress   bool          // Set to compress log file
	Format     string        // Comma separated list of log format options
	LogSystemd bool          // Prefix the levels so journald can read them
}

// DefaultOpt is the default values used for Options
var DefaultOpt = Options{
	Format: "date,time",
}

// Opt is the options for the logger
var Opt = DefaultOpt

// stdLogPrint is the level prefixing printer InitLogging starts with
var stdLogPrint = fs.LogPrint

// enum for the log format
const (
	logFormatDate = 1 << iota
	logFormatTime
	logFormatMicroseconds
	logFormatUTC
	logFormatLongFile
	logFormatShortFile
	logFormatPid
	logFormatNoLevel
	logFormatJSON
)

var logFormatNames = map[string]int{
	"date":         logFormatDate,
	"time":         logFormatTime,
	"microseconds": logFormatMicroseconds,
	"UTC":          logFormatUTC,
	"longfile":     logFormatLongFile,
	"shortfile":    logFormatShortFile,
	"pid":          logFormatPid,
	"nolevel":      logFormatNoLevel,
	"json":         logFormatJSON,
}

// parseFormat parses a comma separated list of format names
func parseFormat(s string) (format int, err error) {
	for _, name := range strings.Split(s, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		bit, ok := logFormatNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown --log-format %q", name)
		}
		format |= bit
	}
	return format, nil
}

// stdFlags converts the parsed format into flags for the log package
func stdFlags(format int) (flags int) {
	if format&logFormatDate != 0 {
		flags |= log.Ldate
	}
	if format&logFormatTime != 0 {
		flags |= log.Ltime
	}
	if format&logFormatMicroseconds != 0 {
		flags |= log.Lmicroseconds
	}
	if format&logFormatUTC != 0 {
		flags |= log.LUTC
	}
	if format&logFormatLongFile != 0 {
		flags |= log.Llongfile
	}
	if format&logFormatShortFile != 0 {
		flags |= log.Lshortfile
	}
	return flags
}

// maxSizeMiB parses the --log-file-max-size flag returning the size
// in MiB as lumberjack wants it. It returns 0 for no rotation.
func maxSizeMiB(s string) (int, error) {
	if s == "" || s == "off" {
		return 0, nil
	}
	size, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("bad --log-file-max-size: %w", err)
	}
	mib := int((size + humanize.MiByte - 1) / humanize.MiByte)
	if mib < 1 {
		mib = 1
	}
	return mib, nil
}

// Round a duration to days with a minimum of 1 if set
func maxAgeDays(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	days := int(d.Hours()/24 + 0.5)
	if days < 1 {
		days = 1
	}
	return days
}

// openLogFile opens the log file as per opt, rotating it with
// lumberjack if a max size is set.
func openLogFile(opt *Options) (io.Writer, error) {
	fileName := env.ShellExpand(opt.File)
	maxSize, err := maxSizeMiB(opt.MaxSize)
	if err != nil {
		return nil, err
	}
	if maxSize == 0 {
		// No log rotation - just open the file as normal
		// We'll capture tracebacks like this too.
		f, err := os.OpenFile(fileName, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0640)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		redirectStderr(f)
		return f, nil
	}
	return &lumberjack.Logger{
		Filename:   fileName,
		MaxSize:    maxSize,
		MaxBackups: opt.MaxBackups,
		MaxAge:     maxAgeDays(opt.MaxAge),
		Compress:   opt.Compress,
		LocalTime:  true, // format log file names in localtime
	}, nil
}

// InitLogging start the logging as per the command line flags
func InitLogging() error {
	ci := fs.GetConfig(context.Background())

	format, err := parseFormat(Opt.Format)
	if err != nil {
		return err
	}

	// --use-json-log implies JSON formatting
	if format&logFormatJSON != 0 {
		ci.UseJSONLog = true
	}

	var out io.Writer = os.Stderr
	if Opt.File != "" {
		out, err = openLogFile(&Opt)
		if err != nil {
			return err
		}
	}

	// Standard text logger
	log.SetOutput(out)
	log.SetFlags(stdFlags(format))
	if format&logFormatPid != 0 {
		log.SetPrefix(fmt.Sprintf("[%d] ", os.Getpid()))
	} else {
		log.SetPrefix("")
	}
	fs.LogPrint = stdLogPrint
	if format&logFormatNoLevel != 0 {
		fs.LogPrint = func(level fs.LogLevel, text string) {
			_ = log.Output(4, text)
		}
	}

	// Activate systemd logger support if stderr is connected to
	// the journal and the log isn't going to a file
	if !Redirected() && os.Getenv("JOURNAL_STREAM") != "" {
		Opt.LogSystemd = true
	}
	if Opt.LogSystemd && !ci.UseJSONLog {
		startSystemdLog(format)
	}

	// JSON logger
	logrus.SetOutput(out)
	logrus.SetLevel(logrus.DebugLevel)
	logrus.SetFormatter(&logrus.JSONFormatter{
		DisableTimestamp: format&(logFormatDate|logFormatTime) == 0,
	})
	return nil
}

// Redirected returns true if the log has been redirected from stderr
func Redirected() bool {
	return Opt.File != ""
}
