// Command sizefolder reports the size of every immediate subfolder of a directory.
package main

import (
	"fmt"
	"os"

	"github.com/idelchi/sizefolder/internal/cli"
)

// version is set at build time.
var version = "unknown - unofficial build"

func main() {
	if err := cli.New(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
