package main

import (
	"os"

	"github.com/conneroisu/zen-temple/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
