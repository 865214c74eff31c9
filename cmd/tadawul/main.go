package main

import (
	"os"

	"github.com/youssefm/tadawul-rs/cmd/tadawul/commands"
)

// main is the entry point for the Tadawul RS CLI
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
