package providers

import (
	"log/slog"
	"os"

	"github.com/km-arc/go-entob/app/services"
	"github.com/km-arc/go-entob/framework/config"
	"github.com/km-arc/go-entob/framework/container"
	fwproviders "github.com/km-arc/go-entob/framework/providers"
)

// Package-level providers shared by entity dependency slots and the
// application container.
var (
	// Config loads the configuration from the process environment once.
	Config = container.NewSingleton(config.Load)

	// Logger is the ledger logger, built from Config.
	Logger = container.NewSingleton(func(cfg *config.Config) *slog.Logger {
		return fwproviders.NewLogger(os.Stdout, cfg)
	}, Config)

	// Ledger is the process-wide payment ledger.
	Ledger = container.NewSingleton(services.NewLedger, Config, Logger)
)

// AppServiceProvider binds the application services.
//
// Bound abstracts:
//   - "config"  → Config. This replaces any earlier binding, including the
//     store-backed one of app.FromStore, so the container and the
//     package-level providers share one instance read from the process
//     environment.
//   - "ledger"  → *services.Ledger
//
// Both are tagged "app.services".
type AppServiceProvider struct {
	container.BaseProvider
}

func (p *AppServiceProvider) Register(app *container.Container) {
	app.Register("config", Config)
	app.Register("ledger", Ledger)
	app.Tag([]string{"config", "ledger"}, "app.services")
}

// Boot resolves the tagged services early so a broken configuration is
// logged at startup. Run reports the error itself.
func (p *AppServiceProvider) Boot(app *container.Container) {
	logger, err := container.Resolve[*slog.Logger](app, "log")
	if err != nil {
		return
	}
	ready, err := app.Tagged("app.services")
	if err != nil {
		logger.Error("app services unavailable", "error", err)
		return
	}
	logger.Debug("app services ready", "count", len(ready))
}
