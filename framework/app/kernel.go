package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/km-arc/go-entob/framework/config"
	"github.com/km-arc/go-entob/framework/container"
	"github.com/km-arc/go-entob/framework/env"
	gohttp "github.com/km-arc/go-entob/framework/http"
	"github.com/km-arc/go-entob/framework/providers"
	"github.com/km-arc/go-entob/framework/routing"
)

// Version of the framework.
const Version = "0.1.0"

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Bind(), app.Singleton(), app.Register() directly —
// exactly like $app in Laravel's bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	store env.Store
}

// New creates the application. Configuration is read from the process
// environment after loading envFiles (default ".env").
func New(envFiles ...string) *Application {
	return newApplication(env.OS(), &providers.ConfigServiceProvider{EnvFiles: envFiles})
}

// FromStore creates the application with configuration read from store.
//
// A provider registered later may re-bind "config". The app's own
// AppServiceProvider does so with the process-wide configuration shared by
// entity dependency slots, which replaces the store-backed binding; Env
// still returns store.
func FromStore(store env.Store) *Application {
	return newApplication(store, &providers.ConfigServiceProvider{Store: store})
}

func newApplication(store env.Store, cfg *providers.ConfigServiceProvider) *Application {
	c := container.New(container.WithLogger(slog.Default()))
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
		store:     store,
	}
	c.Instance("app", app)

	// Register framework core providers (same order as Laravel)
	registry.Register(cfg)
	registry.Register(&providers.LogServiceProvider{})
	registry.Register(&providers.RoutingServiceProvider{})

	c.Extend("log", func(instance any, _ *container.Container) (any, error) {
		return instance.(*slog.Logger).With("version", Version), nil
	})

	return app
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) {
	a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() {
	a.Providers.Boot()
}

// Config resolves *config.Config from the container. It panics when the
// configuration is invalid; Run reports that as an error instead.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Router resolves *routing.Router from the container.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Logger resolves the application logger.
func (a *Application) Logger() *slog.Logger {
	return container.MustResolve[*slog.Logger](a.Container, "log")
}

// Run boots the application (if needed) and serves HTTP on APP_PORT until
// ctx is done, then shuts the server down gracefully, waiting at most
// APP_SHUTDOWN_TIMEOUT seconds (default 5).
func (a *Application) Run(ctx context.Context) error {
	if !a.Providers.Booted() {
		a.Boot()
	}
	cfg, err := container.Resolve[*config.Config](a.Container, "config")
	if err != nil {
		return err
	}
	router, err := container.Resolve[*routing.Router](a.Container, "router")
	if err != nil {
		return err
	}
	logger := a.Logger()

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	logger.Info("server started", "addr", cfg.Addr(), "env", cfg.Env(), "url", cfg.URL())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	timeout := time.Duration(env.GetInt(a.store, "APP_SHUTDOWN_TIMEOUT", 5)) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

// Terminate flushes every binding. The application cannot resolve anything
// afterwards.
//
//	// Laravel: $app->terminate() / $app->flush()
func (a *Application) Terminate() {
	a.Flush()
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().Env() }
func (a *Application) IsLocal() bool       { return a.Environment() == "local" }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsTesting() bool     { return a.Environment() == "testing" }
func (a *Application) IsDebug() bool       { return a.Config().Debug() }
func (a *Application) Version() string     { return Version }

// Env returns the store the application reads its environment from.
func (a *Application) Env() env.Store { return a.store }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}
func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}

// Respond returns a Response negotiated from the request's Accept header.
func (c *Controller) Respond(w http.ResponseWriter, r *http.Request) *gohttp.Response {
	return gohttp.For(w, gohttp.NewRequest(r))
}
