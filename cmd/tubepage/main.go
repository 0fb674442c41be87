package main

import (
	"os"

	"github.com/nrfta/tubepage/cmd/tubepage/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
