package main

import (
	"os"

	"github.com/use-agent/deckscope/cmd/deckscope-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
