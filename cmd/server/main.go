package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"github.com/gravitas-games/hexboard/internal/config"
	"github.com/gravitas-games/hexboard/internal/server"
)

func main() {
	log.SetReportTimestamp(true)
	log.Info("starting hexboard server")

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/server.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal("failed to load configuration", "err", err)
	}

	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn("unknown log level, using info", "level", cfg.Log.Level)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	log.Info("configuration loaded", "path", configPath, "host", cfg.Server.Host, "port", cfg.Server.Port)

	srv, err := server.New(cfg)
	if err != nil {
		log.Fatal("failed to create server", "err", err)
	}

	errChan := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Start(addr); err != nil {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatal("server error", "err", err)
	case sig := <-sigChan:
		log.Info("received signal, shutting down", "signal", sig)
	}

	if err := srv.Shutdown(); err != nil {
		log.Error("error during shutdown", "err", err)
	}

	log.Info("server stopped")
}
