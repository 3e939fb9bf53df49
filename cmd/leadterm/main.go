package main

import (
	"log"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"leadterm/internal/api"
	"leadterm/internal/config"
	"leadterm/internal/importer"
	"leadterm/internal/ui"
)

func main() {
	cfgStore, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, closeLog, err := openLogger(cfgStore)
	if err != nil {
		log.Fatalf("open log: %v", err)
	}
	defer closeLog()

	client := api.NewClient(cfgStore.Config.APIBaseURL, cfgStore.Timeout(), logger)
	pipeline := importer.New(client, logger)

	program := ui.NewProgram(client, pipeline, cfgStore, logger)
	if err := program.Start(); err != nil {
		logger.Error().Err(err).Msg("program terminated")
		log.Println("program terminated:", err)
		os.Exit(1)
	}
}

// openLogger writes structured logs next to the config file. Logging to the
// terminal would fight the UI for the screen.
func openLogger(cfgStore *config.Store) (zerolog.Logger, func(), error) {
	path := filepath.Join(cfgStore.Dir(), "leadterm.log")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, err
	}

	level, err := zerolog.ParseLevel(cfgStore.Config.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(file).Level(level).With().Timestamp().Logger()
	return logger, func() { _ = file.Close() }, nil
}
