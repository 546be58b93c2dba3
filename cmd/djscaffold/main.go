package main

import (
	"os"

	"github.com/djscaffold/djscaffold/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
