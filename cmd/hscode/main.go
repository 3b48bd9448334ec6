// hscode is the offline CLI for tokenizing, matching, and scoring product
// declarations against local files.
package main

import (
	"os"

	"github.com/turtacn/HSCode-Intelligence/internal/interfaces/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
