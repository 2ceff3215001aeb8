// Package validate реализует HTTP-обработчик проверки access токена.
//
// Эндпоинт используется соседними сервисами для интроспекции токена:
// по access токену возвращаются данные пользователя из базы,
// если токен действителен и учетная запись активна.
package validate

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// Request — входные данные для проверки токена.
type Request struct {
	Token string `json:"token" validate:"required"`
}

// Handler управляет HTTP-запросами на проверку токена.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс проверки access токена.
type Service interface {
	Authorize(ctx context.Context, accessToken string) (*models.User, error)
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
// @Summary Проверить access токен
// @Description Проверяет подпись, срок действия и тип токена, а также активность учетной записи.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Access токен"
// @Success 200 {object} response.OKResponse "Токен действителен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Недействительный или просроченный токен"
// @Router /auth/validate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.validate"

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

	user, err := h.service.Authorize(r.Context(), req.Token)
	if err != nil {
		log.Info("token rejected", sl.Err(err))
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("invalid or expired token"))
		return
	}

	log.Info("token validated", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"valid":    true,
		"user_id":  user.UID,
		"username": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	}))
}
