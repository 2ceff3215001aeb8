// Package profileupdate реализует HTTP-обработчик изменения профиля пользователя.
//
// Самостоятельно пользователь может сменить только имя и email.
// Роль и активность учетной записи через этот эндпоинт не меняются.
package profileupdate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// Request — входные данные для обновления профиля.
// Заполняются только изменяемые поля.
type Request struct {
	Username *string `json:"username,omitempty" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
}

// Handler управляет HTTP-запросами на обновление профиля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления профиля.
type Service interface {
	UpdateProfile(ctx context.Context, user *models.User, username, email *string) (*models.Profile, error)
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
// @Summary Обновить профиль текущего пользователя
// @Description Меняет имя пользователя и/или email. Возвращает обновленный профиль.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Изменяемые поля профиля"
// @Success 200 {object} models.Profile "Обновленный профиль"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON, ошибка валидации или пустой запрос"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} response.ErrorResponse "Имя пользователя или email уже заняты"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при обновлении профиля"
// @Security BearerAuth
// @Router /auth/profile [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profileupdate"

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
	log.Info("request body decoded")

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if req.Username == nil && req.Email == nil {
		log.Info("empty update request")
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("no fields to update"))
		return
	}

	user, ok := r.Context().Value(middlewarectx.User).(*models.User)
	if !ok || user == nil {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), user, req.Username, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUsernameTaken), errors.Is(err, models.ErrEmailTaken):
			log.Info("profile update conflict", sl.Err(err))
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to update profile", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update profile"))
		}
		return
	}

	log.Info("profile updated", slog.String("username", profile.Username))
	render.JSON(w, r, profile)
}
