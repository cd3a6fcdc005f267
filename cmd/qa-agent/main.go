// Command qa-agent answers questions about a web document using
// retrieval-augmented generation.
package main

import (
	"os"

	"github.com/custodia-labs/qa-agent/internal/adapters/driving/cli"
)

// version is set by the linker: -ldflags "-X main.version=v1.2.3".
var version = "dev"

func main() {
	cli.SetVersion(version)
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
