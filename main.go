// ABOUTME: Entry point for the hrdesk CLI
// ABOUTME: Terminal client for the employee management system

package main

import (
	"fmt"
	"os"

	"github.com/markalston/hrdesk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
