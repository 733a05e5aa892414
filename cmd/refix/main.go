package main

import (
	"os"

	"github.com/refixlabs/refix/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
