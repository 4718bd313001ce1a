package main

import (
	"os"

	"github.com/avass/simstep/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
