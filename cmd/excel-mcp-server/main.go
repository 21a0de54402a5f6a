package main

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/isoittech/excel-mcp-server/internal/server"
)

// version is set via -ldflags at release time.
var version = "dev"

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// stdout carries the MCP transport; all logging goes to stderr.
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "excel-mcp-server").Logger()

	s, err := server.New(version, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed to initialize server")
		os.Exit(1)
	}
	logger.Info().Str("version", version).Msg("serving over stdio")
	if err := s.Start(); err != nil {
		logger.Error().Err(err).Msg("server terminated")
		os.Exit(1)
	}
}
