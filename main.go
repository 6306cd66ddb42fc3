package main

import (
	"os"

	"github.com/abhisek/wenyan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
