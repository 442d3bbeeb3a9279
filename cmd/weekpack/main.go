package main

import (
	"os"

	appLog "weekpack/internal/log"
)

const version = "0.1.0"

func main() {
	root := SetupCommands()
	if err := root.Execute(); err != nil {
		appLog.Error("command failed", err)
		os.Exit(1)
	}
}
