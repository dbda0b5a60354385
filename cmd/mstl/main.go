package main

import (
	"os"

	"github.com/sartorproj/gomstl/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
