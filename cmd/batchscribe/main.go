package main

import (
	"os"

	"github.com/batchscribe/batchscribe/cmd/batchscribe/cmd"
	"github.com/batchscribe/batchscribe/pkg/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.Error().Err(err).Msg("Application execution failed")
		os.Exit(1)
	}
}
