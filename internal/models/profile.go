package models

import "time"

// Profile is the signed-in user
type Profile struct {
	ID          string    `json:"id"`
	Username    *string   `json:"username"`
	AvatarURL   *string   `json:"avatar_url"`
	StreakCount int       `json:"streak_count"`
	Points      int       `json:"points"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName returns the username, falling back to the id
func (p Profile) DisplayName() string {
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return p.ID
}

// Achievement is reserved for gamification; nothing unlocks it yet
type Achievement struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Points      int       `json:"points"`
	UnlockedAt  time.Time `json:"unlocked_at"`
}

// NewAchievement holds the caller-supplied fields of an achievement
type NewAchievement struct {
	UserID      string  `json:"user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Points      int     `json:"points"`
}
