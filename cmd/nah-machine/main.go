package main

import (
	"os"

	"github.com/rcliao/nah-machine/internal/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
