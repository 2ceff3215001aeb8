package userlist

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/identity-service/internal/models"
)

// MockService реализует интерфейс userlist.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListUsers(ctx context.Context, limit, offset int) (*models.UserListPage, error) {
	args := m.Called(ctx, limit, offset)
	page, _ := args.Get(0).(*models.UserListPage)
	return page, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUserListHandler(t *testing.T) {
	logger := newNoopLogger()

	page := &models.UserListPage{
		Users: []*models.Profile{
			{UID: "uid-1", Username: "user1", Email: "user1@example.com", Role: "user", IsActive: true},
			{UID: "uid-2", Username: "user2", Email: "user2@example.com", Role: "admin", IsActive: true},
		},
		Total:  42,
		Limit:  2,
		Offset: 0,
	}

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "страница с явными параметрами",
			url:  "/auth/users?limit=2&offset=0",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 2, 0).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"total":42`,
		},
		{
			name: "параметры по умолчанию",
			url:  "/auth/users",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 20, 0).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "мусор в параметрах заменяется значениями по умолчанию",
			url:  "/auth/users?limit=abc&offset=-5",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 20, 0).Return(page, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"status":"OK"`,
		},
		{
			name: "storage error",
			url:  "/auth/users?limit=10",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 10, 0).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to list users"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}

func TestUserListHandler_PageShape(t *testing.T) {
	logger := newNoopLogger()
	mockService := new(MockService)
	mockService.On("ListUsers", mock.Anything, 20, 0).Return(&models.UserListPage{
		Users: []*models.Profile{
			{UID: "uid-1", Username: "user1", Email: "user1@example.com", Role: "user", IsActive: true},
		},
		Total:  1,
		Limit:  20,
		Offset: 0,
	}, nil)

	handler := New(logger, mockService)

	req := httptest.NewRequest(http.MethodGet, "/auth/users", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got map[string]any
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))

	data, ok := got["data"].(map[string]any)
	assert.True(t, ok)
	users, ok := data["users"].([]any)
	assert.True(t, ok)
	assert.Len(t, users, 1)

	first, ok := users[0].(map[string]any)
	assert.True(t, ok)
	assert.Equal(t, "user1", first["username"])
	assert.NotContains(t, first, "password_hash")

	mockService.AssertExpectations(t)
}
