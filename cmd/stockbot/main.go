package main

import (
	"os"

	"github.com/opsatya/ved/cmd/stockbot/commands"
)

// main is the entry point for the stockbot CLI
// ⭐ single binary: go run ./cmd/stockbot [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
