// Package changepassword реализует HTTP-обработчик смены пароля пользователя.
//
// Handler проверяет текущий пароль и сохраняет хэш нового.
// Ни текущий, ни новый пароль не попадают в логи и в ответы.
package changepassword

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

// Request — входные данные для смены пароля.
type Request struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

// Handler управляет HTTP-запросами на смену пароля.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены пароля.
type Service interface {
	ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error
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
// @Summary Сменить пароль текущего пользователя
// @Description Проверяет текущий пароль и сохраняет новый. Выданные ранее токены продолжают действовать до истечения срока.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Текущий и новый пароли"
// @Success 200 {object} response.OKResponse "Пароль изменен"
// @Failure 400 {object} response.ErrorResponse "Неверный текущий пароль, слабый новый пароль или ошибка валидации"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера при смене пароля"
// @Security BearerAuth
// @Router /auth/change-password [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.changepassword"

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
	// Тело запроса целиком состоит из паролей и в лог не пишется
	log.Info("request body decoded")

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, ok := r.Context().Value(middlewarectx.User).(*models.User)
	if !ok || user == nil {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	if err := h.service.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, models.ErrPasswordMismatch), errors.Is(err, models.ErrWeakPassword):
			log.Info("password change rejected", slog.String("username", user.Username))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error(err.Error()))
		default:
			log.Error("failed to change password", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to change password"))
		}
		return
	}

	log.Info("password changed", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "password changed successfully",
	}))
}
