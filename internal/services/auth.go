package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"portfolio/internal/config"
	"portfolio/internal/logger"
	"portfolio/internal/utils"

	"go.uber.org/zap"
)

// RoleAdmin — единственная роль, которую выдаёт сервис.
const RoleAdmin = "admin"

var (
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrLoginDisabled      = errors.New("вход администратора отключён")
)

// AuthService выдаёт токены единственному администратору сайта.
// Учётные данные берутся из конфигурации, отдельной таблицы пользователей нет.
type AuthService struct {
	username     string
	passwordHash string
	secret       string
	ttl          time.Duration
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		username:     cfg.AdminUsername,
		passwordHash: cfg.AdminPasswordHash,
		secret:       cfg.JWTSecret,
		ttl:          cfg.AccessTTL(),
	}
}

// Login проверяет пару логин/пароль и возвращает access-токен и момент его истечения.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	log := logger.WithCtx(ctx)
	log.Info("Попытка входа администратора", zap.String("username", username))

	if s.passwordHash == "" || s.secret == "" {
		log.Warn("Вход отключён: не задан хеш пароля или секрет")
		return "", time.Time{}, ErrLoginDisabled
	}
	if strings.TrimSpace(username) != s.username || !utils.CheckPassword(s.passwordHash, password) {
		log.Warn("Неверные учётные данные", zap.String("username", username))
		return "", time.Time{}, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(s.secret, s.username, RoleAdmin, s.ttl)
	if err != nil {
		log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", time.Time{}, err
	}

	log.Info("Вход выполнен", zap.String("username", username))
	return token, time.Now().Add(s.ttl), nil
}

// Verify разбирает токен из заголовка Authorization.
func (s *AuthService) Verify(token string) (*utils.AccessClaims, error) {
	return utils.ParseToken(s.secret, token)
}
