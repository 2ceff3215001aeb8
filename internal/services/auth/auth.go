// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/identity-service/internal/lib/jwt"
	"github.com/magabrotheeeer/identity-service/internal/lib/password"
	"github.com/magabrotheeeer/identity-service/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/identity-service/internal/lib/sl"
	"github.com/magabrotheeeer/identity-service/internal/models"
)

// minPasswordLength - минимальная длина пароля при регистрации и смене пароля.
const minPasswordLength = 8

// defaultRole назначается пользователю, если роль не указана при регистрации.
const defaultRole = "user"

// userListTTL - время жизни кеша страниц списка пользователей.
const userListTTL = 5 * time.Minute

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает созданную запись.
	CreateUser(ctx context.Context, user models.User) (*models.User, error)
	// GetUserByUsername возвращает пользователя по имени или models.ErrUserNotFound.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	// GetUserByEmail возвращает пользователя по email или models.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateUser обновляет только заполненные поля и возвращает обновлённую запись.
	UpdateUser(ctx context.Context, userUID string, upd models.UserUpdate) (*models.User, error)
	// UpdatePassword заменяет хэш пароля пользователя.
	UpdatePassword(ctx context.Context, userUID, passwordHash string) error
	// StampLastLogin фиксирует время последнего входа пользователя.
	StampLastLogin(ctx context.Context, userUID string) error
	// ListUsers возвращает страницу пользователей.
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	// CountUsers возвращает общее количество пользователей.
	CountUsers(ctx context.Context) (int, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// InvalidateByPattern удаляет все ключи, подходящие под шаблон.
	InvalidateByPattern(ctx context.Context, pattern string) error
}

// EventPublisher публикует события пользователей в брокер сообщений.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// AuthService отвечает за регистрацию, аутентификацию, выпуск токенов
// и управление учётными записями.
type AuthService struct {
	users  UserRepository
	hasher *password.Hasher
	tokens jwt.Maker
	events EventPublisher // nil, если брокер сообщений не настроен
	cache  Cache
	log    *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, hasher *password.Hasher, tokens jwt.Maker,
	events EventPublisher, cache Cache, log *slog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		cache:  cache,
		log:    log,
	}
}

// Register создает нового пользователя и возвращает набор токенов.
//
// Предварительные проверки уникальности имени и email - оптимизация для
// типового случая; гонку двух одновременных регистраций разрешает
// уникальное ограничение в базе данных.
func (s *AuthService) Register(ctx context.Context, username, email, rawPassword, role string) (*models.TokenBundle, error) {
	if len(rawPassword) < minPasswordLength {
		return nil, models.ErrWeakPassword
	}
	if role == "" {
		role = defaultRole // дефолтная роль при регистрации
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, models.ErrUsernameTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, models.ErrEmailTaken
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, err
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, err
	}
	user, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("registered new user", slog.String("username", user.Username))
	s.invalidateUserList(ctx)
	s.publishEvent(rabbitmq.RoutingKeyUserRegistered, user)

	return s.issueBundle(user)
}

// Login проверяет пароль пользователя и возвращает свежий набор токенов.
//
// Неизвестное имя, неактивная учётная запись и неверный пароль снаружи
// неразличимы: все три случая возвращают models.ErrInvalidCredentials,
// чтобы не раскрывать существование имени пользователя.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.TokenBundle, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		s.log.Info("login attempt for inactive user", slog.String("username", username))
		return nil, models.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(user.PasswordHash, rawPassword); err != nil {
		return nil, models.ErrInvalidCredentials
	}

	if err := s.users.StampLastLogin(ctx, user.UID); err != nil {
		s.log.Warn("failed to stamp last login", sl.Err(err))
	}

	return s.issueBundle(user)
}

// Refresh проверяет refresh токен и выпускает новый access токен.
// Сам refresh токен переиспользуется без ротации.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenBundle, error) {
	claims, err := s.tokens.Parse(refreshToken, jwt.KindRefresh)
	if err != nil {
		return nil, models.ErrInvalidToken
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrInvalidToken
	}

	accessToken, expiresAt, err := s.tokens.Issue(user.Username, user.Email, user.Role, user.UID, jwt.KindAccess)
	if err != nil {
		return nil, err
	}
	return &models.TokenBundle{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		UserUID:      user.UID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

// Authorize проверяет access токен и возвращает живую запись пользователя.
//
// Роль и активность берутся из базы, а не из claims: токен мог быть выпущен
// до смены роли или блокировки учётной записи.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (*models.User, error) {
	claims, err := s.tokens.Parse(accessToken, jwt.KindAccess)
	if err != nil {
		return nil, models.ErrInvalidToken
	}
	user, err := s.users.GetUserByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, models.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, models.ErrInvalidToken
	}
	return user, nil
}

// ChangePassword проверяет текущий пароль пользователя и сохраняет хэш нового.
func (s *AuthService) ChangePassword(ctx context.Context, user *models.User, currentPassword, newPassword string) error {
	if err := s.hasher.Compare(user.PasswordHash, currentPassword); err != nil {
		return models.ErrPasswordMismatch
	}
	if len(newPassword) < minPasswordLength {
		return models.ErrWeakPassword
	}
	hashed, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.UID, hashed); err != nil {
		return err
	}

	s.log.Info("password changed", slog.String("username", user.Username))
	s.publishEvent(rabbitmq.RoutingKeyPasswordChanged, user)
	return nil
}

// UpdateProfile меняет имя пользователя и/или email.
//
// Проверки уникальности пропускают собственную запись пользователя:
// повторная отправка текущего имени не считается конфликтом.
func (s *AuthService) UpdateProfile(ctx context.Context, user *models.User, username, email *string) (*models.Profile, error) {
	if username != nil {
		existing, err := s.users.GetUserByUsername(ctx, *username)
		if err == nil && existing.UID != user.UID {
			return nil, models.ErrUsernameTaken
		}
		if err != nil && !errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
	}
	if email != nil {
		existing, err := s.users.GetUserByEmail(ctx, *email)
		if err == nil && existing.UID != user.UID {
			return nil, models.ErrEmailTaken
		}
		if err != nil && !errors.Is(err, models.ErrUserNotFound) {
			return nil, err
		}
	}

	updated, err := s.users.UpdateUser(ctx, user.UID, models.UserUpdate{
		Username: username,
		Email:    email,
	})
	if err != nil {
		return nil, err
	}

	s.invalidateUserList(ctx)
	return models.ProfileFromUser(updated), nil
}

// ListUsers возвращает страницу пользователей, используя кеш или репозиторий.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) (*models.UserListPage, error) {
	cacheKey := fmt.Sprintf("users:list:%d:%d", limit, offset)
	var page *models.UserListPage
	found, err := s.cache.Get(cacheKey, &page)
	if err != nil {
		s.log.Warn("failed to read users list from cache", slog.String("key", cacheKey), sl.Err(err))
	}
	if found && page != nil {
		return page, nil
	}

	users, err := s.users.ListUsers(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	total, err := s.users.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	profiles := make([]*models.Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, models.ProfileFromUser(u))
	}
	page = &models.UserListPage{
		Users:  profiles,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	}
	if err := s.cache.Set(cacheKey, page, userListTTL); err != nil {
		s.log.Warn("failed to cache users list", slog.String("key", cacheKey), sl.Err(err))
	}
	return page, nil
}

// EnsureAdmin создает административную учётную запись, если её ещё нет.
// Повторные запуски ничего не меняют.
func (s *AuthService) EnsureAdmin(ctx context.Context, username, email, rawPassword string) error {
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return err
	}
	if len(rawPassword) < minPasswordLength {
		return models.ErrWeakPassword
	}

	hashed, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return err
	}
	if _, err := s.users.CreateUser(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         "admin",
		IsActive:     true,
	}); err != nil {
		// Параллельно стартовавший экземпляр мог создать запись первым
		if errors.Is(err, models.ErrUsernameTaken) || errors.Is(err, models.ErrEmailTaken) {
			return nil
		}
		return err
	}

	s.log.Info("bootstrap admin created", slog.String("username", username))
	return nil
}

// issueBundle выпускает пару access+refresh токенов для пользователя.
func (s *AuthService) issueBundle(user *models.User) (*models.TokenBundle, error) {
	accessToken, expiresAt, err := s.tokens.Issue(user.Username, user.Email, user.Role, user.UID, jwt.KindAccess)
	if err != nil {
		return nil, err
	}
	refreshToken, _, err := s.tokens.Issue(user.Username, user.Email, user.Role, user.UID, jwt.KindRefresh)
	if err != nil {
		return nil, err
	}
	return &models.TokenBundle{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresAt:    expiresAt,
		UserUID:      user.UID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	}, nil
}

// publishEvent отправляет событие в брокер. Ошибка публикации пишется в лог
// и не прерывает основную операцию.
func (s *AuthService) publishEvent(routingKey string, user *models.User) {
	if s.events == nil {
		return
	}
	event := models.UserEvent{
		UserUID:    user.UID,
		Username:   user.Username,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.events.Publish(routingKey, event); err != nil {
		s.log.Error("failed to publish event", slog.String("routing_key", routingKey), sl.Err(err))
	}
}

// invalidateUserList сбрасывает закешированные страницы списка пользователей.
func (s *AuthService) invalidateUserList(ctx context.Context) {
	if err := s.cache.InvalidateByPattern(ctx, "users:list:*"); err != nil {
		s.log.Warn("failed to invalidate users list cache", sl.Err(err))
	}
}
