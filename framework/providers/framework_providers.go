package providers

import (
	"io"
	"log/slog"
	"os"

	"github.com/km-arc/go-entob/framework/config"
	"github.com/km-arc/go-entob/framework/container"
	"github.com/km-arc/go-entob/framework/env"
	"github.com/km-arc/go-entob/framework/routing"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration and binds it
// into the container as "config".
//
// Bound abstracts:
//   - "config"         → *config.Config
//   - "configuration"  → alias of "config"
//
// With Store set the configuration is read from it. Otherwise EnvFiles are
// loaded into the process environment first (see config.Load).
//
// Laravel equivalent:
//
//	// Illuminate\Foundation\Bootstrap\LoadConfiguration
//	$app->singleton('config', fn() => new Repository($items));
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles []string
	Store    env.Store
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	envFiles, store := p.EnvFiles, p.Store
	app.Singleton("config", func() (*config.Config, error) {
		if store != nil {
			return config.FromStore(store)
		}
		return config.Load(envFiles...)
	})
	app.Alias("config", "configuration")
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider registers the application logger.
//
// Bound abstracts:
//   - "log"  → *slog.Logger
//
// The level comes from LOG_LEVEL. Production writes JSON, every other
// environment writes text. Output defaults to os.Stdout. When a resolved
// "config" is re-bound, "log" is re-bound to follow it.
type LogServiceProvider struct {
	container.BaseProvider
	Output io.Writer
}

func (p *LogServiceProvider) Register(app *container.Container) {
	p.bind(app)
	app.Rebinding("config", func(any) { p.bind(app) })
}

func (p *LogServiceProvider) bind(app *container.Container) {
	out := p.Output
	if out == nil {
		out = os.Stdout
	}
	app.Singleton("log", func(cfg *config.Config) *slog.Logger {
		return NewLogger(out, cfg)
	}, app.Ref("config"))
}

// NewLogger builds the logger described by cfg.
func NewLogger(out io.Writer, cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var h slog.Handler
	if cfg.Env() == "production" {
		h = slog.NewJSONHandler(out, opts)
	} else {
		h = slog.NewTextHandler(out, opts)
	}
	return slog.New(h).With("app", cfg.Name())
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router.
//
// Bound abstracts:
//   - "router"  → *routing.Router
//
// Laravel equivalent:
//
//	// Illuminate\Routing\RoutingServiceProvider
//	$app->singleton('router', fn($app) => new Router($app['events'], $app));
type RoutingServiceProvider struct {
	container.BaseProvider
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", routing.New, app.Ref("log"))
}
