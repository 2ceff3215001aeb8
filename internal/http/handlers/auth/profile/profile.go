// Package profile реализует HTTP-обработчик получения профиля текущего пользователя.
//
// Пользователь извлекается из контекста запроса, куда его помещает
// middleware проверки токена. Хэш пароля в ответ не попадает.
package profile

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// Handler управляет HTTP-запросами на чтение профиля.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{
		log: log,
	}
}

// ServeHTTP godoc
// @Summary Получить профиль текущего пользователя
// @Description Возвращает публичные данные учетной записи без хэша пароля.
// @Tags Auth
// @Produce  json
// @Success 200 {object} models.Profile "Профиль пользователя"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /auth/profile [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.profile"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	user, ok := r.Context().Value(middlewarectx.User).(*models.User)
	if !ok || user == nil {
		log.Error("user not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	log.Info("profile requested", slog.String("username", user.Username))
	render.JSON(w, r, models.ProfileFromUser(user))
}
