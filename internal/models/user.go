// Package models содержит доменные структуры сервиса идентификации:
// учётную запись пользователя, частичное обновление профиля и набор
// выдаваемых токенов. Структуры используются в бизнес‑логике и при
// работе с хранилищем.
package models

import "time"

// User представляет учётную запись пользователя системы.
// PasswordHash никогда не попадает в ответы API и в логи.
type User struct {
	UID          string     // Уникальный идентификатор пользователя (UUID)
	Username     string     // Имя пользователя (уникальное)
	Email        string     // Электронная почта (уникальная)
	PasswordHash string     // bcrypt-хэш пароля
	Role         string     // Роль пользователя, admin или user
	IsActive     bool       // Активна ли учётная запись
	CreatedAt    time.Time  // Дата создания записи
	UpdatedAt    time.Time  // Дата последнего изменения
	LastLoginAt  *time.Time // Дата последнего входа, nil если входов ещё не было
}

// UserUpdate описывает частичное обновление учётной записи:
// изменяются только заполненные (non-nil) поля.
type UserUpdate struct {
	Username     *string
	Email        *string
	PasswordHash *string
	Role         *string
	IsActive     *bool
}

// TokenBundle — набор токенов, возвращаемый после успешной
// регистрации, входа или обновления токена.
type TokenBundle struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	UserUID      string    `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
}

// Profile — публичное представление учётной записи без хэша пароля.
type Profile struct {
	UID         string     `json:"user_id"`
	Username    string     `json:"username"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ProfileFromUser конвертирует учётную запись в публичный профиль.
func ProfileFromUser(u *User) *Profile {
	if u == nil {
		return nil
	}
	return &Profile{
		UID:         u.UID,
		Username:    u.Username,
		Email:       u.Email,
		Role:        u.Role,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
		LastLoginAt: u.LastLoginAt,
	}
}

// UserListPage — страница списка пользователей для административного API.
type UserListPage struct {
	Users  []*Profile `json:"users"`
	Total  int        `json:"total"`
	Limit  int        `json:"limit"`
	Offset int        `json:"offset"`
}
