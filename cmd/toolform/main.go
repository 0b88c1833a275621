// Command toolform inspects MCP tools from the terminal: it synthesizes
// parameter defaults, renders and edits parameter forms, invokes tools and
// classifies their results.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
