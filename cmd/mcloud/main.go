package main

import (
	"os"

	"github.com/model-cloud/mcloud/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
