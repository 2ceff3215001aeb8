// Package identity собирает и запускает HTTP-приложение сервиса идентификации:
// подключение к PostgreSQL и Redis, миграции, опциональный брокер событий,
// бизнес-логику и маршруты.
package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/identity-service/internal/cache"
	"github.com/magabrotheeeer/identity-service/internal/config"
	"github.com/magabrotheeeer/identity-service/internal/lib/jwt"
	"github.com/magabrotheeeer/identity-service/internal/lib/password"
	"github.com/magabrotheeeer/identity-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/identity-service/internal/migrations"
	services "github.com/magabrotheeeer/identity-service/internal/services/auth"
	"github.com/magabrotheeeer/identity-service/internal/storage/repository"
)

// App инкапсулирует HTTP-сервер и внешние ресурсы приложения.
type App struct {
	server   *http.Server
	logger   *slog.Logger
	db       *repository.Storage
	amqpConn *amqp.Connection // nil, если брокер не настроен
}

// New создает приложение: подключает хранилища, накатывает миграции,
// настраивает брокер событий и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var amqpConn *amqp.Connection
	var events services.EventPublisher
	if cfg.AddressRabbitMQ != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AddressRabbitMQ, cfg.ConnectRetries, cfg.RetryDelay)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetIdentityEventQueues())
		if err != nil {
			if closeErr := amqpConn.Close(); closeErr != nil {
				logger.Error("failed to close rabbitmq connection", slog.String("error", closeErr.Error()))
			}
			return nil, err
		}
		events = rabbitmq.NewPublisher(ch)
	} else {
		logger.Info("rabbitmq address is empty, event publishing disabled")
	}

	hasher := password.New(cfg.BcryptCost)
	maker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := services.NewAuthService(db, hasher, maker, events, cacheRedis, logger)

	if cfg.AdminUsername != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, err
		}
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server:   srv,
		logger:   logger,
		db:       db,
		amqpConn: amqpConn,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.String("error", closeErr.Error()))
		}
		if a.amqpConn != nil {
			if closeErr := a.amqpConn.Close(); closeErr != nil {
				a.logger.Error("failed to close rabbitmq connection", slog.String("error", closeErr.Error()))
			}
		}
		return err
	}
}
