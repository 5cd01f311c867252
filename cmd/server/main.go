package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/handler"
	"github.com/MKhiriev/go-lesson-sync/internal/hub"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/server"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/internal/store"
	"github.com/MKhiriev/go-lesson-sync/internal/utils"
	"github.com/MKhiriev/go-lesson-sync/internal/workers"
	"github.com/MKhiriev/go-lesson-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := printBuildInfo()

	log := logger.NewLogger("lesson-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.App.Version == "" {
		cfg.App.Version = buildInfo.BuildVersion()
	}

	log.Debug().Str("address", cfg.Server.HTTPAddress).Str("lesson", cfg.Lesson.File).Msg("received configs")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)
	defer stop()

	lesson, err := hub.LoadLesson(cfg.Lesson.File)
	if err != nil {
		log.Fatal().Err(err).Msg("error loading lesson")
	}

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	services, err := service.NewServices(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	lessonHub, err := hub.New(lesson, services.AuthService, storages.ChangeRepository, utils.NewUUIDGenerator(), log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating lesson hub")
	}

	handlers, err := handler.NewHandlers(services, lessonHub, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	if err = workers.New(log, lessonHub, srv).Run(ctx); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		return
	}
	log.Info().Msg("server shut down gracefully")
}

func printBuildInfo() models.AppBuildInfo {
	info := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Print(info)
	return info
}
