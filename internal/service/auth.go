package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mkorolev/dp-store/internal/domain/models"
	jwtauth "github.com/mkorolev/dp-store/internal/lib/jwt"
	"github.com/mkorolev/dp-store/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUnauthenticated — учетные данные отсутствуют, подделаны или протухли
	ErrUnauthenticated = errors.New("unauthenticated")
)

// AuthServiceInterface — регистрация, вход и проверка токена
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Resolve(ctx context.Context, credential string) (*models.User, error)
}

// IdentityResolver — та часть AuthService, которая нужна оформлению заказа
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*models.User, error)
}

type AuthService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, secret []byte, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		userRepo: userRepo,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

// Register создает нового пользователя. Пароль хэшируется через bcrypt,
// который автоматически добавляет соль
func (a *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	const op = "auth.Register"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("registering user")

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	user, err := a.userRepo.CreateUser(ctx, &models.User{
		Username: username,
		PassHash: passHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			logger.Warn("user already exists")
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", user.ID))
	return user, nil
}

// Login проверяет пароль и выдает подписанный токен
func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	const op = "auth.Login"
	logger := a.log.With(
		slog.String("op", op),
		slog.String("username", username),
	)
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := jwtauth.NewToken(user, a.secret, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}

// Resolve проверяет токен и возвращает пользователя из claim "sub".
// Невалидный токен — ErrUnauthenticated; валидный токен без пользователя
// в базе — storage.ErrUserNotFound
func (a *AuthService) Resolve(ctx context.Context, credential string) (*models.User, error) {
	const op = "auth.Resolve"
	logger := a.log.With(slog.String("op", op))

	if credential == "" {
		return nil, fmt.Errorf("%s: missing credential: %w", op, ErrUnauthenticated)
	}

	username, err := jwtauth.ParseUsername(credential, a.secret)
	if err != nil {
		logger.Warn("token verification failed", slog.Any("error", err))
		return nil, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	user, err := a.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("token subject has no user record", slog.String("username", username))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	return user, nil
}
