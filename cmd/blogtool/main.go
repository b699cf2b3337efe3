// Command blogtool drives The New Heretics blog publishing API from the
// command line, and serves the same tools over HTTP for host runtimes.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// A failed tool has already printed its result.
		if !errors.Is(err, errToolFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
