// main.go
//
// Entry point for the matchboard binary. All commands live in internal/cli:
//   - serve: HTTP server for the browser board
//   - play:  terminal board
//   - version
package main

import (
	"fmt"
	"os"

	"github.com/robalobadob/matchboard/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
