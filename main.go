package main

import (
	"os"

	"github.com/fleetyard/dispatchboard/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
