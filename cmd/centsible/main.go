package main

import (
	"os"

	"github.com/centsible-dev/centsible/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
