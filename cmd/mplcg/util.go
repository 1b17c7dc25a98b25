package main

import (
	"bufio"
	"io"
	"os"
	"strings"

	"mplcg/irtext"
)

// newBufferedWriter wraps the output sink in a bufio.Writer, the one
// deliberately-stdlib buffering seam between the core and the file the
// CLI opens for it (the core itself only ever sees an io.Writer).
func newBufferedWriter(w io.Writer) *bufio.Writer {
	return bufio.NewWriter(w)
}

// writeTrace renders the -d/--trace companion file: the IR container as
// it stood after liveness pruned dead temps, alongside every surviving
// block and instruction's live/used_next annotations.
func writeTrace(outputPath string, prog *irtext.Program) error {
	path := outputPath
	if path == "" {
		path = "a.out.asm"
	}
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		path = path[:idx]
	}
	path += ".dbg"

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.WriteString(f, prog.Container.Dump())
	return err
}
