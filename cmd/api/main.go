package main

import (
	"os"

	"github.com/stjtech/admissions/internal/pkg/logger"
	"github.com/stjtech/admissions/internal/server"
)

// @title St Joseph's Technical Institute Admissions API
// @version 1.0
// @description Validates, stores and acknowledges enrollment applications

// @contact.name Admissions Office
// @contact.email info@stjosephstechnical.ac.ke

// @host localhost:8080
// @BasePath /api/v1
// @schemes http https

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
