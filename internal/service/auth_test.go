package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/mkorolev/dp-store/internal/domain/models"
	"github.com/mkorolev/dp-store/internal/service"
	"github.com/mkorolev/dp-store/internal/storage"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserRepo — пользователи в памяти, ключ — имя пользователя
type fakeUserRepo struct {
	users map[string]*models.User
}

var _ storage.UserStorage = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (f *fakeUserRepo) ListUsers(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	for _, u := range f.users {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.users[username]
	if !ok {
		return nil, storage.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, storage.ErrUserNotFound
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if _, ok := f.users[user.Username]; ok {
		return nil, storage.ErrUserExists
	}
	user.ID = int64(len(f.users) + 1)
	f.users[user.Username] = user
	return user, nil
}

var authSecret = []byte("testsecret")

func newAuth(repo storage.UserStorage) *service.AuthService {
	return service.NewAuthService(discardLogger(), repo, authSecret, time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	auth := newAuth(repo)
	ctx := context.Background()

	user, err := auth.Register(ctx, "buyer", "password123")
	assert.NoError(t, err)
	assert.Equal(t, "buyer", user.Username)
	// Пароль сохранен только в виде bcrypt-хэша
	assert.NoError(t, bcrypt.CompareHashAndPassword(user.PassHash, []byte("password123")))

	token, err := auth.Login(ctx, "buyer", "password123")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	// Выданный токен разрешается обратно в того же пользователя
	resolved, err := auth.Resolve(ctx, token)
	assert.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)
}

func TestRegister_Duplicate(t *testing.T) {
	repo := newFakeUserRepo()
	auth := newAuth(repo)
	ctx := context.Background()

	_, err := auth.Register(ctx, "buyer", "password123")
	assert.NoError(t, err)

	_, err = auth.Register(ctx, "buyer", "otherpass123")
	assert.ErrorIs(t, err, storage.ErrUserExists)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	auth := newAuth(repo)
	ctx := context.Background()

	_, err := auth.Register(ctx, "buyer", "password123")
	assert.NoError(t, err)

	_, err = auth.Login(ctx, "buyer", "wrongpass123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	auth := newAuth(newFakeUserRepo())

	_, err := auth.Login(context.Background(), "ghost", "password123")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestResolve_BadToken(t *testing.T) {
	auth := newAuth(newFakeUserRepo())

	_, err := auth.Resolve(context.Background(), "garbage")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)

	_, err = auth.Resolve(context.Background(), "")
	assert.ErrorIs(t, err, service.ErrUnauthenticated)
}

func TestResolve_UserDeletedAfterTokenIssued(t *testing.T) {
	repo := newFakeUserRepo()
	auth := newAuth(repo)
	ctx := context.Background()

	_, err := auth.Register(ctx, "buyer", "password123")
	assert.NoError(t, err)
	token, err := auth.Login(ctx, "buyer", "password123")
	assert.NoError(t, err)

	// Пользователь исчез из базы, токен при этом валиден
	delete(repo.users, "buyer")

	_, err = auth.Resolve(ctx, token)
	assert.ErrorIs(t, err, storage.ErrUserNotFound)
}
