// Command snip is a local code snippet manager.
package main

import (
	"os"

	"github.com/kilupskalvis/snip/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
