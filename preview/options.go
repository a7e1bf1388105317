package preview

import (
	"net"
	"path/filepath"
	"strconv"

	"github.com/legitscript/lspreview/fs"
	libhttp "github.com/legitscript/lspreview/lib/http"
	"github.com/spf13/pflag"
)

// Namespace is the URL prefix the project is served under
const Namespace = "LegitScriptEditor"

// IndexURL is where every request outside the Namespace is sent
const IndexURL = "/" + Namespace + "/index.html"

// SourceDir selects which build output is served
type SourceDir = fs.Enum[sourceDirChoices]

// Build outputs which can be served
const (
	SourceDirProd SourceDir = iota
	SourceDirDev
)

type sourceDirChoices struct{}

func (sourceDirChoices) Choices() []string {
	return []string{
		SourceDirProd: "prod",
		SourceDirDev:  "dev",
	}
}

// Options contains the configuration of the preview server
type Options struct {
	Host      string         // interface to bind
	Port      int            // TCP port to bind
	SourceDir SourceDir      // build output to serve
	Base      string         // project directory containing dist/
	HTTP      libhttp.Config // server timeouts and CORS
}

// DefaultOpt is the default values used for Options
func DefaultOpt() Options {
	return Options{
		Host:      "0.0.0.0",
		Port:      8000,
		SourceDir: SourceDirProd,
		Base:      ".",
		HTTP:      libhttp.DefaultCfg(),
	}
}

// AddFlags adds the flags for opt to flagSet
func AddFlags(flagSet *pflag.FlagSet, opt *Options) {
	flagSet.StringVarP(&opt.Host, "host", "", opt.Host, "Interface to bind")
	flagSet.IntVarP(&opt.Port, "port", "", opt.Port, "TCP port to bind")
	flagSet.VarP(&opt.SourceDir, "sdir", "", "Build output to serve from dist/")
	flagSet.StringVarP(&opt.Base, "base", "", opt.Base, "Project directory containing dist/")
	opt.HTTP.AddFlagsPrefix(flagSet, "")
}

// Addr returns the address to listen on
func (opt *Options) Addr() string {
	return net.JoinHostPort(opt.Host, strconv.Itoa(opt.Port))
}

// SourceDirectory returns the directory files are served from
func (opt *Options) SourceDirectory() string {
	return filepath.Join(opt.Base, "dist", opt.SourceDir.String())
}
