// Package password реализует безопасное хеширование и проверку паролей
// на основе bcrypt. Соль встроена в алгоритм, поэтому один и тот же
// пароль каждый раз даёт новый хэш.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrEmptyPassword возвращается при попытке захэшировать пустой пароль.
var ErrEmptyPassword = errors.New("password is empty")

// Hasher хэширует и проверяет пароли с настраиваемой стоимостью bcrypt.
type Hasher struct {
	cost int
}

// New создаёт Hasher. Если cost вне допустимого диапазона bcrypt,
// используется bcrypt.DefaultCost.
func New(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash принимает пароль пользователя и возвращает его bcrypt‑хэш.
//
// Используется для безопасного хранения паролей в базе данных.
func (h *Hasher) Hash(password string) (string, error) {
	const op = "password.Hash"
	if password == "" {
		return "", fmt.Errorf("%s: %w", op, ErrEmptyPassword)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// Compare сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
// Повреждённый или не‑bcrypt хэш также считается несоответствием.
func (h *Hasher) Compare(hash, password string) error {
	const op = "password.Compare"
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
