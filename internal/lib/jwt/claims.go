// Package jwt реализует выпуск и парсинг JWT токенов с пользовательскими claim полями.
//
// Maker определяет интерфейс для выпуска и проверки токенов двух типов:
// короткоживущего access и долгоживущего refresh. MakerImpl — конкретная
// реализация на секретном ключе HS256 с отдельным TTL для каждого типа.
package jwt

import (
	"time"
)

// TokenKind — тип выпускаемого токена.
type TokenKind string

// Поддерживаемые типы токенов.
const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Maker описывает интерфейс для выпуска и парсинга JWT токенов.
//
// Issue создаёт подписанный токен заданного типа, Parse разбирает токен
// и проверяет, что его тип совпадает с ожидаемым.
type Maker interface {
	// Issue возвращает подписанный токен и момент истечения его срока.
	Issue(username, email, role, useruid string, kind TokenKind) (string, time.Time, error)
	// Parse возвращает *CustomClaims, если токен корректен и имеет тип want.
	Parse(tokenStr string, want TokenKind) (*CustomClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и отдельного времени жизни для access и refresh токенов.
type MakerImpl struct {
	secretKey  string        // Секретный ключ для подписи токенов.
	accessTTL  time.Duration // Время жизни access токена.
	refreshTTL time.Duration // Время жизни refresh токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, accessTTL, refreshTTL time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey:  secretKey,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}
