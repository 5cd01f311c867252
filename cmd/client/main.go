package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-lesson-sync/internal/adapter"
	"github.com/MKhiriev/go-lesson-sync/internal/client"
	"github.com/MKhiriev/go-lesson-sync/internal/config"
	"github.com/MKhiriev/go-lesson-sync/internal/logger"
	"github.com/MKhiriev/go-lesson-sync/internal/service"
	"github.com/MKhiriev/go-lesson-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewConsoleLogger("lesson-client", os.Stderr)
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	dialer, err := adapter.NewWebsocketDialer(cfg.Adapter, cfg.Sync, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create sync dialer")
	}

	sessions := service.NewClientSessionService(serverAdapter, dialer, cfg.Sync, log)

	var app client.Client
	app, err = client.NewApp(sessions, cfg.Adapter.User, os.Stdin, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err = app.Run(ctx); err != nil {
		log.Error().Err(err).Msg("client run error")
		os.Exit(1)
	}
}

func printBuildInfo() {
	fmt.Print(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))
}
