package models

import "time"

// UserEvent описывает событие жизненного цикла пользователя,
// публикуемое в брокер сообщений. Хеш пароля в событие не попадает.
type UserEvent struct {
	UserUID    string    `json:"user_id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}
