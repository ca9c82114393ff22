package main

import (
	"os"

	"github.com/msto63/fdl/cmd/fdl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
