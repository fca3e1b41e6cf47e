package main

import (
	"os"

	"github.com/nodech/sway-matiane/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
