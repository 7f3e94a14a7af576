package main

import (
	"fmt"
	"log/slog"

	"github.com/amirasaad/pixbank/infra"
	infrarepo "github.com/amirasaad/pixbank/infra/repository"
	"github.com/amirasaad/pixbank/pkg/app"
	"github.com/amirasaad/pixbank/pkg/config"
	"github.com/amirasaad/pixbank/pkg/notifier"
	"github.com/amirasaad/pixbank/webapi"
	log "github.com/charmbracelet/log"
)

// @title PixBank API
// @version 1.0.0
// @description Banking API: accounts, ledger operations and PIX transfers
// @host localhost:3000
// @BasePath /
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description "Enter your Bearer token in the format: `Bearer {token}`"
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	logger := slog.Default()
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err := infrarepo.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	bus := notifier.NewBus(logger)
	bus.Subscribe(notifier.EventTransaction, notifier.LogHandler(logger))

	a := app.New(&app.Deps{
		Uow:      infrarepo.NewUoW(db),
		Notifier: bus,
		Logger:   logger,
	}, cfg)

	fiberApp := webapi.SetupApp(a)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("starting server",
		"env", cfg.Env,
		"address", addr,
		"scheme", cfg.Server.Scheme,
	)
	return fiberApp.Listen(addr)
}
