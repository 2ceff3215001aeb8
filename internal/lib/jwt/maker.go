package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Ошибки парсинга и выпуска токенов.
var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnexpectedKind = errors.New("unexpected token kind")
)

// CustomClaims описывает данные, хранящиеся в JWT. Имя пользователя
// лежит в стандартном поле Subject.
type CustomClaims struct {
	UserUID              string    `json:"user_id"` // Идентификатор пользователя
	Email                string    `json:"email"`   // Email пользователя
	Role                 string    `json:"role"`    // Роль пользователя
	TokenKind            TokenKind `json:"type"`    // Тип токена: access или refresh
	jwt.RegisteredClaims           // Встроенные стандартные claims JWT (ExpiresAt, IssuedAt и пр.)
}

// Issue создаёт JWT токен заданного типа, подписывая его секретным ключом.
// Время жизни зависит от типа токена.
//
// Возвращает подписанный токен и момент истечения его срока.
func (j *MakerImpl) Issue(username, email, role, useruid string, kind TokenKind) (string, time.Time, error) {
	const op = "jwt.Issue"
	ttl, err := j.ttlFor(kind)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := CustomClaims{
		UserUID:   useruid,
		Email:     email,
		Role:      role,
		TokenKind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return signed, expiresAt, nil
}

// Parse парсит JWT токен, проверяет подпись, срок действия и тип токена,
// возвращает CustomClaims с данными, если токен корректен.
//
// Токен с чужой подписью, истёкшим сроком или типом, отличным от want,
// отклоняется с ошибкой.
func (j *MakerImpl) Parse(tokenStr string, want TokenKind) (*CustomClaims, error) {
	const op = "jwt.Parse"
	token, err := jwt.ParseWithClaims(tokenStr, &CustomClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidToken)
	}
	if claims.TokenKind != want {
		return nil, fmt.Errorf("%s: %w", op, ErrUnexpectedKind)
	}
	return claims, nil
}

func (j *MakerImpl) ttlFor(kind TokenKind) (time.Duration, error) {
	switch kind {
	case KindAccess:
		return j.accessTTL, nil
	case KindRefresh:
		return j.refreshTTL, nil
	default:
		return 0, ErrUnexpectedKind
	}
}
