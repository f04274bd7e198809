package main

import (
	"os"

	"github.com/firefly-engineering/adfctl/cmd"
	"github.com/firefly-engineering/adfctl/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
