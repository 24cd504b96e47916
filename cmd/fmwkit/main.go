package main

import (
	"os"

	"github.com/msto63/fmwkit/cmd/fmwkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
