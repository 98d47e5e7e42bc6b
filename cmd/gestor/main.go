package main

import (
	"os"

	"github.com/gestor-dev/gestor/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
