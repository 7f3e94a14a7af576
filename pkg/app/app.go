// Package app wires services to their dependencies.
package app

import (
	"log/slog"

	"github.com/amirasaad/pixbank/pkg/config"
	"github.com/amirasaad/pixbank/pkg/notifier"
	"github.com/amirasaad/pixbank/pkg/repository"
	"github.com/amirasaad/pixbank/pkg/service/account"
	"github.com/amirasaad/pixbank/pkg/service/auth"
	"github.com/amirasaad/pixbank/pkg/service/ledger"
	"github.com/amirasaad/pixbank/pkg/service/user"
)

// Deps contains the infrastructure every service is built on.
type Deps struct {
	Uow      repository.UnitOfWork
	Notifier notifier.Notifier
	Logger   *slog.Logger
}

// App holds the wired services.
type App struct {
	Deps           *Deps
	Config         *config.App
	AuthService    *auth.Service
	UserService    *user.Service
	AccountService *account.Service
	LedgerService  *ledger.Service
}

// New wires all services from deps and cfg.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:           deps,
		Config:         cfg,
		AuthService:    auth.NewWithJWT(deps.Uow, cfg.Auth.Jwt, deps.Logger),
		UserService:    user.New(deps.Uow, deps.Logger),
		AccountService: account.New(deps.Uow, deps.Logger),
		LedgerService:  ledger.New(deps.Uow, deps.Notifier, deps.Logger, cfg.Ledger.LockTimeout),
	}
}
