package main

import (
	"os"

	"github.com/yigit/erpconsole/internal/config"
	"github.com/yigit/erpconsole/internal/pkg/logger"
	"github.com/yigit/erpconsole/internal/server"
)

// @title Academic ERP Console
// @version 1.0
// @description Server-rendered admin console for domains and students
// @BasePath /

func main() {
	configPath := config.GetEnv("CONFIG_PATH", "configs/config.yaml")

	srv, err := server.NewServer(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize server")
		os.Exit(1)
	}

	if err := srv.Run(); err != nil {
		logger.Error().Err(err).Msg("Server execution failed or shutdown encountered errors")
		os.Exit(1)
	}

	logger.Info().Msg("Application finished gracefully.")
}
