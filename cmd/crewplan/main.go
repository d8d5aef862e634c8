package main

import (
	"os"

	"github.com/mckinlee/crewplan/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
