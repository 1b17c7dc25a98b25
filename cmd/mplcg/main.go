// Command mplcg is the wrapping executable around the code generator
// core: flag/verbosity handling, file opening, and target selection are
// all out of the core's scope (§6) and live here instead.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
