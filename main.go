package main

import (
	"os"

	"github.com/GabrielGomez33/mirror-server-sub002/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
