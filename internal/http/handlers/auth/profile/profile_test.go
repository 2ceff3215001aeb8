package profile

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestProfileHandler(t *testing.T) {
	logger := newNoopLogger()
	handler := New(logger)

	lastLogin := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	user := &models.User{
		UID:          "uid-1",
		Username:     "user1",
		Email:        "user1@example.com",
		PasswordHash: "$2a$10$secret-hash",
		Role:         "user",
		IsActive:     true,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:    time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		LastLoginAt:  &lastLogin,
	}

	t.Run("профиль авторизованного пользователя", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		ctx := context.WithValue(req.Context(), middlewarectx.User, user)
		req = req.WithContext(ctx)

		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()

		var got map[string]any
		assert.NoError(t, json.Unmarshal([]byte(body), &got))
		assert.Equal(t, "uid-1", got["user_id"])
		assert.Equal(t, "user1", got["username"])
		assert.Equal(t, "user1@example.com", got["email"])
		assert.Equal(t, "user", got["role"])
		assert.Equal(t, true, got["is_active"])
		assert.NotEmpty(t, got["last_login_at"])

		// Хэш пароля не должен утекать в ответ
		assert.NotContains(t, body, "secret-hash")
		assert.NotContains(t, got, "password_hash")
	})

	t.Run("no user in context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), `{"status":"Error","error":"unauthorized"}`)
	})
}
