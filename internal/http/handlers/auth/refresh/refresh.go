// Package refresh реализует HTTP-обработчик обновления access токена.
//
// Handler принимает refresh токен, проверяет его через бизнес-логику
// и возвращает набор токенов с новым access токеном.
// Refresh токен переиспользуется без ротации.
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// Request — входные данные для обновления токена.
type Request struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Handler управляет HTTP-запросами на обновление access токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления токена.
type Service interface {
	Refresh(ctx context.Context, refreshToken string) (*models.TokenBundle, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить access токен
// @Description Проверяет refresh токен и возвращает набор токенов с новым access токеном.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Refresh токен"
// @Success 200 {object} models.TokenBundle "Токен обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Недействительный или просроченный refresh токен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении токена"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	bundle, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, models.ErrInvalidToken) {
			log.Info("refresh token rejected")
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, response.Error(err.Error()))
			return
		}
		log.Error("token refresh failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to refresh token"))
		return
	}

	log.Info("access token refreshed", slog.String("username", bundle.Username))
	render.JSON(w, r, bundle)
}
