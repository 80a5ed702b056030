package main

import (
	"os"

	"github.com/conneroisu/plategen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
