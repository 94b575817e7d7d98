// Command contactnet builds per-period contact networks from interaction
// logs, detects communities with Louvain and reports network statistics.
package main

import (
	"os"
)

// Set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
