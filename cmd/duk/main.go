package main

import (
	"os"

	"github.com/DucktectiveCZ/duklang/cmd/duk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
