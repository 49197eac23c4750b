// Package main is the entry point for the specrun CLI.
package main

import (
	"os"

	"specrun/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
