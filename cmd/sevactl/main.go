package main

import (
	"os"

	"github.com/sevadhara/console/cmd/sevactl/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
