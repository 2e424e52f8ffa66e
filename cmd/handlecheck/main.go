// Command handlecheck reports pool handles that are discarded or not
// released on every path.
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/joshuapare/splicekit/analysis/handlecheck"
)

func main() {
	singlechecker.Main(handlecheck.Analyzer)
}
