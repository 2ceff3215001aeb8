package changepassword

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

	"github.com/magabrotheeeer/identity-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// MockService реализует интерфейс changepassword.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	args := m.Called(ctx, user, currentPassword, newPassword)
	return args.Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestChangePasswordHandler(t *testing.T) {
	logger := newNoopLogger()

	user := &models.User{
		UID:      "uid-1",
		Username: "user1",
		Email:    "user1@example.com",
		Role:     "user",
		IsActive: true,
	}

	tests := []struct {
		name           string
		requestBody    any
		withUser       bool
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:        "успешная смена пароля",
			requestBody: Request{CurrentPassword: "oldpassword", NewPassword: "newpassword123"},
			withUser:    true,
			setupMock: func(m *MockService) {
				m.On("ChangePassword", mock.Anything, user, "oldpassword", "newpassword123").
					Return(nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"message":"password changed successfully"`,
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"invalid request body"}`,
		},
		{
			name:           "validation error - short new password",
			requestBody:    Request{CurrentPassword: "oldpassword", NewPassword: "short"},
			withUser:       true,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "field NewPassword is shorter than the allowed minimum",
		},
		{
			name:           "no user in context",
			requestBody:    Request{CurrentPassword: "oldpassword", NewPassword: "newpassword123"},
			withUser:       false,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `{"status":"Error","error":"unauthorized"}`,
		},
		{
			name:        "wrong current password",
			requestBody: Request{CurrentPassword: "wrongpass", NewPassword: "newpassword123"},
			withUser:    true,
			setupMock: func(m *MockService) {
				m.On("ChangePassword", mock.Anything, user, "wrongpass", "newpassword123").
					Return(models.ErrPasswordMismatch)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"status":"Error","error":"current password does not match"}`,
		},
		{
			name:        "storage error",
			requestBody: Request{CurrentPassword: "oldpassword", NewPassword: "newpassword123"},
			withUser:    true,
			setupMock: func(m *MockService) {
				m.On("ChangePassword", mock.Anything, user, "oldpassword", "newpassword123").
					Return(errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"failed to change password"}`,
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

			req := httptest.NewRequest(http.MethodPost, "/auth/change-password", bytes.NewReader(bodyBytes))
			if tt.withUser {
				ctx := context.WithValue(req.Context(), middlewarectx.User, user)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
