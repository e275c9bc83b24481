// ABOUTME: Entry point for panel-planner CLI
// ABOUTME: Command-line tool for sizing BMS panel hardware and building bills of quantities

package main

import (
	"fmt"
	"os"

	"github.com/asman100/BMS-SELECTION-KING/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
