// Package main is the entry point for the kiln CLI.
package main

import (
	"context"
	"os"

	"github.com/satishbabariya/kiln/cmd/kiln/commands"
	"github.com/satishbabariya/kiln/internal/ui"
)

func main() {
	if err := commands.NewRootCommand().ExecuteContext(context.Background()); err != nil {
		ui.PrintError("Error: %v", err)
		os.Exit(1)
	}
}
