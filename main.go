package main

import (
	"os"

	"github.com/theapemachine/mind-go/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
