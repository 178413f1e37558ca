package main

import (
	"os"

	"github.com/volunteerhub/backend/cmd/server/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
