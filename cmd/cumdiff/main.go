package main

import (
	"os"

	"github.com/sartorproj/gocumdiff/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
