// Preview a local build of the LegitScript editor
package main

import (
	"github.com/legitscript/lspreview/cmd"
)

func main() {
	cmd.Main()
}
