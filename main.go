package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/km-arc/go-entob/app/controllers"
	"github.com/km-arc/go-entob/app/providers"
	"github.com/km-arc/go-entob/app/services"
	"github.com/km-arc/go-entob/framework/app"
	"github.com/km-arc/go-entob/framework/container"
	"github.com/km-arc/go-entob/framework/env"
	gohttp "github.com/km-arc/go-entob/framework/http"
	"github.com/km-arc/go-entob/framework/routing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	application := app.New() // loads .env automatically
	defer application.Terminate()
	application.Register(&providers.AppServiceProvider{})
	application.Boot()

	ledger, err := container.Resolve[*services.Ledger](application.Container, "ledger")
	if err != nil {
		return err
	}

	r := application.Router()

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		gohttp.NewResponse(w).Success(map[string]any{
			"status":   "ok",
			"ledger":   ledger.Name(),
			"payments": ledger.Len(),
		})
	})

	r.Prefix("/api/v1", func(api *routing.Router) {
		api.Group(func(protected *routing.Router) {
			if token := env.Get(application.Env(), "API_TOKEN", ""); token != "" {
				protected.Middleware(TokenMiddleware(token))
			}
			controllers.NewPaymentController(ledger).Routes(protected)
		})
	})

	if env.GetBool(application.Env(), "APP_LIST_ROUTES", false) {
		routes, err := r.Routes()
		if err != nil {
			return err
		}
		for _, route := range routes {
			fmt.Println(route)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

// TokenMiddleware guards routes with a static bearer token.
func TokenMiddleware(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if gohttp.NewRequest(r).BearerToken() != token {
				gohttp.NewResponse(w).Unauthorized()
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
