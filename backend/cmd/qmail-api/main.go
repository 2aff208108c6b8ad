package main

import (
	"os"

	"github.com/qmail-dev/qmail/backend/cmd/qmail-api/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
