package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-task-keeper/internal/config"
	handler "github.com/MKhiriev/go-task-keeper/internal/handler/http"
	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/MKhiriev/go-task-keeper/internal/server"
	"github.com/MKhiriev/go-task-keeper/internal/service"
	"github.com/MKhiriev/go-task-keeper/internal/store"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("task-keeper-server")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	taskRepository, err := newTaskRepository(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating task repository")
	}

	services := service.NewServices(taskRepository, *cfg, log)
	handlers := handler.NewHandler(services, log)

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

// newTaskRepository selects the storage backend: Postgres when a DSN is
// configured, otherwise the seeded in-memory demo store.
func newTaskRepository(cfg *config.StructuredConfig, log *logger.Logger) (store.TaskRepository, error) {
	if cfg.Storage.DB.DSN == "" {
		log.Info().Msg("no database DSN configured, using seeded in-memory store")
		return store.NewSeededTaskRepository(), nil
	}

	db, err := store.NewConnectPostgres(context.Background(), cfg.Storage.DB, log)
	if err != nil {
		return nil, err
	}

	return store.NewTaskRepository(db, log), nil
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
