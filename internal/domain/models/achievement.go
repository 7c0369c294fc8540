package models

import "time"

// Achievement — достижение, которое может быть выдано пользователю
type Achievement struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// UserAchievement — достижение, выданное конкретному пользователю
type UserAchievement struct {
	AchievementID int64     `json:"achievementId"`
	Title         string    `json:"title"`
	AwardedAt     time.Time `json:"awardedAt"`
}
