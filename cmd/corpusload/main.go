package main

import (
	"os"

	"github.com/bioctools/corpusload/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
