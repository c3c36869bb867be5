package main

import (
	"os"

	"github.com/akelani/classchat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
