package login

import (
	"bytes"
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

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, username, rawPassword string) (*models.TokenBundle, error) {
	args := m.Called(ctx, username, rawPassword)
	bundle, _ := args.Get(0).(*models.TokenBundle)
	return bundle, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler(t *testing.T) {
	logger := newNoopLogger()

	bundle := &models.TokenBundle{
		AccessToken:  "access.jwt",
		RefreshToken: "refresh.jwt",
		UserUID:      "uid-1",
		Username:     "user1",
		Email:        "user1@example.com",
		Role:         "user",
	}

	tests := []struct {
		name           string
		requestBody    any
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешный вход",
			requestBody: Request{Username: "user1", Password: "password123"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user1", "password123").Return(bundle, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"refresh_token":"refresh.jwt"`,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "validation error - missing password",
			requestBody:    Request{Username: "user1"},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field Password is a required field",
		},
		{
			name:        "wrong password",
			requestBody: Request{Username: "user1", Password: "wrongpass"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user1", "wrongpass").
					Return(nil, models.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid username or password"}`,
		},
		{
			name:        "unknown user gets the same answer",
			requestBody: Request{Username: "ghost", Password: "password123"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "ghost", "password123").
					Return(nil, models.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"invalid username or password"}`,
		},
		{
			name:        "storage error",
			requestBody: Request{Username: "user1", Password: "password123"},
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "user1", "password123").
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to login user"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			var bodyBytes []byte
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				var err error
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(bodyBytes))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
