package models

import "errors"

// Ошибки доменного уровня, общие для хранилища, бизнес-логики и HTTP-слоя.
// HTTP-обработчики сопоставляют их со статусами ответов.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch   = errors.New("current password does not match")
)
