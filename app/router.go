package app

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	authhandlers "github.com/hirelane/engage/app/modules/auth/infrastructure/handlers"
)

const httpReadHeaderTimeout = 10 * time.Second

// newHTTPHandler builds the chi router with the huma API mounted on it.
func (app *App) newHTTPHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", app.handleHealth)
	r.Handle("/metrics", app.Observability.Metrics.Handler())

	r.Group(func(r chi.Router) {
		for _, mw := range app.AuthModule.HTTPMiddleware() {
			r.Use(mw)
		}

		humaConfig := huma.DefaultConfig("Hirelane Engagement API", "1.0.0")
		humaConfig.Components.SecuritySchemes = authhandlers.SecuritySchemes()
		api := humachi.New(r, humaConfig)

		// Auth installs the bearer middleware, so it registers first
		app.AuthModule.RegisterAPI(api)
		app.AchievementModule.RegisterAPI(api)
		app.LeaderboardModule.RegisterAPI(api)
		app.CareerModule.RegisterAPI(api)
	})

	return r
}

func (app *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"status": "ok", "database": "ok"}
	code := http.StatusOK
	if err := app.DB.PingContext(ctx); err != nil {
		status["status"], status["database"] = "degraded", err.Error()
		code = http.StatusServiceUnavailable
	}
	if qs := app.LeaderboardModule.QueueService; qs != nil {
		status["queue"] = "ok"
		if err := qs.HealthCheck(ctx); err != nil {
			status["status"], status["queue"] = "degraded", err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}
