package main

import (
	"os"

	"github.com/studylync/studylync/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
