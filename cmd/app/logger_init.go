package main

import (
	"github.com/verdantlabs/gardenledger/internal/config"
	"github.com/verdantlabs/gardenledger/internal/logger"
	"github.com/verdantlabs/gardenledger/internal/server"
)

// initLogger initializes the logger using centralized app configuration
func initLogger(cfg *config.Config) {
	// Source info only in dev
	addSource := cfg.Environment == "dev" || cfg.Environment == "development"

	loggerConfig := logger.NewConfig(
		cfg.LogLevel,
		cfg.LogFormat,
		"gardenledger",
		server.Version,
		cfg.Environment,
		addSource,
	)

	logger.InitLogger(loggerConfig)
}
