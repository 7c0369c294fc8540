package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mkorolev/dp-store/internal/domain/models"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type UserStorage interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) UserStorage {
	return &userRepository{db: db}
}

const userColumns = "id, username, pass_hash, email, full_name, phone, registered_at"

func scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var email, fullName, phone sql.NullString
	if err := row.Scan(&user.ID, &user.Username, &user.PassHash, &email, &fullName, &phone, &user.RegisteredAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Email = email.String
	user.FullName = fullName.String
	user.Phone = phone.String
	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		var email, fullName, phone sql.NullString
		if err := rows.Scan(&user.ID, &user.Username, &user.PassHash, &email, &fullName, &phone, &user.RegisteredAt); err != nil {
			return nil, err
		}
		user.Email = email.String
		user.FullName = fullName.String
		user.Phone = phone.String
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// получение уже существующего пользователя по имени
func (r *userRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = $1", username)
	return scanUser(row)
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)
	return scanUser(row)
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (username, pass_hash, email, full_name, phone, registered_at) VALUES ($1, $2, $3, $4, $5, NOW()) RETURNING id",
		user.Username, user.PassHash, nullString(user.Email), nullString(user.FullName), nullString(user.Phone),
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			return nil, ErrUserExists
		}
		return nil, err
	}
	user.ID = id
	return user, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
