package main

import (
	"os"

	"github.com/emrekir/vidprobe/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
