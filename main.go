package main

import (
	"os"

	"github.com/abhisek/studypulse/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
