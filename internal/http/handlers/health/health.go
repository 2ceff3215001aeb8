// Package health реализует HTTP-обработчик проверки работоспособности сервиса.
package health

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/identity-service/internal/http/response"
)

// serviceName попадает в тело ответа вместе с версией.
const serviceName = "identity-service"

// Version проставляется при сборке:
// go build -ldflags "-X .../internal/http/handlers/health.Version=v1.0.0"
var Version = "dev"

// Handler отвечает на запросы проверки работоспособности.
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
// @Summary Проверка работоспособности
// @Description Возвращает имя сервиса, версию и текущее время.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.OKResponse "Сервис работает"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, response.OKWithData(map[string]any{
		"status":    "ok",
		"service":   serviceName,
		"version":   Version,
		"timestamp": time.Now().UTC(),
	}))
}
