package main

import (
	"os"

	"github.com/heroku/color"

	"github.com/gantry-build/gantry/cmd"
	"github.com/gantry-build/gantry/internal/commands"
	"github.com/gantry-build/gantry/pkg/logging"
)

func main() {
	logger := logging.NewLogWithWriters(color.Stdout(), color.Stderr())

	rootCmd, err := cmd.NewGantryCommand(logger)
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	ctx := commands.CreateCancellableContext()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
