// Package logout реализует HTTP-обработчик выхода из системы.
//
// Сервер не хранит выданные токены, поэтому выход не имеет серверного
// состояния: клиент удаляет токены у себя, а эндпоинт подтверждает операцию
// и оставляет след в логах.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/http/response"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// Handler управляет HTTP-запросами на выход из системы.
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
// @Summary Выйти из системы
// @Description Подтверждает выход. Токены не отзываются и действуют до истечения срока, клиент удаляет их самостоятельно.
// @Tags Auth
// @Produce  json
// @Success 200 {object} response.OKResponse "Выход выполнен"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

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

	log.Info("user logged out", slog.String("username", user.Username))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"message": "logged out",
	}))
}
