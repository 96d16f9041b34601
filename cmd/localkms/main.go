package main

import (
	"os"

	"localkms/cmd/localkms/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
