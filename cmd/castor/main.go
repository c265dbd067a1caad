package main

import (
	"os"

	"github.com/yigit/castor/internal/pkg/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Error().Err(err).Msg("castor failed")
		os.Exit(1)
	}
}
