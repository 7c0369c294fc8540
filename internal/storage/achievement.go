package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/mkorolev/dp-store/internal/domain/models"
)

var (
	ErrAchievementNotFound = errors.New("achievement not found")
	ErrAlreadyAwarded      = errors.New("achievement already awarded")
)

type AchievementStorage interface {
	ListAchievements(ctx context.Context) ([]*models.Achievement, error)
	GetAchievementByID(ctx context.Context, id int64) (*models.Achievement, error)
	CreateAchievement(ctx context.Context, a *models.Achievement) (*models.Achievement, error)
	DeleteAchievement(ctx context.Context, id int64) error
	// Award выдает достижение пользователю; повторная выдача — ErrAlreadyAwarded
	Award(ctx context.Context, userID, achievementID int64) error
	ListByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error)
}

type achievementRepository struct {
	db *sql.DB
}

func NewAchievementRepository(db *sql.DB) AchievementStorage {
	return &achievementRepository{db: db}
}

func (r *achievementRepository) ListAchievements(ctx context.Context) ([]*models.Achievement, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, title, COALESCE(description, '') FROM achievements ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var achievements []*models.Achievement
	for rows.Next() {
		a := &models.Achievement{}
		if err := rows.Scan(&a.ID, &a.Title, &a.Description); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return achievements, nil
}

func (r *achievementRepository) GetAchievementByID(ctx context.Context, id int64) (*models.Achievement, error) {
	a := &models.Achievement{}
	row := r.db.QueryRowContext(ctx, "SELECT id, title, COALESCE(description, '') FROM achievements WHERE id = $1", id)
	if err := row.Scan(&a.ID, &a.Title, &a.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAchievementNotFound
		}
		return nil, err
	}
	return a, nil
}

func (r *achievementRepository) CreateAchievement(ctx context.Context, a *models.Achievement) (*models.Achievement, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO achievements (title, description) VALUES ($1, $2) RETURNING id",
		a.Title, nullString(a.Description),
	).Scan(&id)
	if err != nil {
		return nil, err
	}
	a.ID = id
	return a, nil
}

func (r *achievementRepository) DeleteAchievement(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM achievements WHERE id = $1", id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAchievementNotFound
	}
	return nil
}

func (r *achievementRepository) Award(ctx context.Context, userID, achievementID int64) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_achievements (user_id, achievement_id, awarded_at) VALUES ($1, $2, NOW())",
		userID, achievementID,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505": // unique_violation
				return ErrAlreadyAwarded
			case "23503": // foreign_key_violation
				return ErrAchievementNotFound
			}
		}
		return err
	}
	return nil
}

func (r *achievementRepository) ListByUser(ctx context.Context, userID int64) ([]*models.UserAchievement, error) {
	query := `
		SELECT ua.achievement_id, a.title, ua.awarded_at
		FROM user_achievements ua
		JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = $1
		ORDER BY ua.awarded_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var awarded []*models.UserAchievement
	for rows.Next() {
		ua := &models.UserAchievement{}
		if err := rows.Scan(&ua.AchievementID, &ua.Title, &ua.AwardedAt); err != nil {
			return nil, err
		}
		awarded = append(awarded, ua)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return awarded, nil
}
