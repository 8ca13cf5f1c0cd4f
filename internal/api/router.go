package api

import (
	"net/http"

	"github.com/dom/weather-gate/internal/api/handlers"
	"github.com/dom/weather-gate/internal/api/middleware"
	"github.com/dom/weather-gate/internal/config"
	"github.com/dom/weather-gate/internal/counter"
	"github.com/dom/weather-gate/internal/service"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

func NewRouter(services *service.Services, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.Session(services.Session))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(services.User, services.Session, cfg.LoginRoute, cfg.CookieSecure)
	weatherHandler := handlers.NewWeatherHandler(services.Gate, services.Weather, counter.NewCodec(cfg.CounterSecret), cfg.LoginRoute, cfg.CookieSecure)

	r.Post("/sign-up", authHandler.SignUp)
	r.Post("/sign-in", authHandler.SignIn)
	r.Post("/sign-out", authHandler.SignOut)

	r.Get("/weather", weatherHandler.Get)

	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/me", authHandler.Me)
	})

	// Frontend bundle
	if cfg.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(cfg.StaticDir)))
	}

	return r
}
