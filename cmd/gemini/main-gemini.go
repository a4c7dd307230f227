package main

import (
	"os"

	"github.com/bububa/gemini-go/cmd/gemini/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
