// Package identity предоставляет маршруты HTTP-приложения.
package identity

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/changepassword"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/profile"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/profileupdate"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/refresh"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/userlist"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/auth/validate"
	"github.com/magabrotheeeer/identity-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, authService).ServeHTTP)
		r.Post("/auth/login", login.New(logger, authService).ServeHTTP)
		r.Post("/auth/refresh", refresh.New(logger, authService).ServeHTTP)
		r.Post("/auth/validate", validate.New(logger, authService).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(authService, logger))
			r.Get("/auth/profile", profile.New(logger).ServeHTTP)
			r.Put("/auth/profile", profileupdate.New(logger, authService).ServeHTTP)
			r.Post("/auth/change-password", changepassword.New(logger, authService).ServeHTTP)
			r.Post("/auth/logout", logout.New(logger).ServeHTTP)

			// Административная группа
			r.Group(func(r chi.Router) {
				r.Use(middlewarectx.AdminOnlyMiddleware(logger))
				r.Get("/auth/users", userlist.New(logger, authService).ServeHTTP)
			})
		})
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
