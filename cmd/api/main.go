package main

import (
	"os"

	"github.com/eborodin/eventum/internal/pkg/logger"
	"github.com/eborodin/eventum/internal/server"
)

// @title Eventum API
// @version 1.0
// @description Event publication and participation service

// @host localhost:8080
// @BasePath /api/v1
// @schemes http

func main() {
	srv, err := server.NewServer()
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
