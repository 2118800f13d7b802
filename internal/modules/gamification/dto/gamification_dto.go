package dto

import "time"

type BadgeResponse struct {
	Type        string    `json:"type"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

type StatsResponse struct {
	Points           int             `json:"points"`
	EventsRegistered int             `json:"events_registered"`
	EventsAttended   int             `json:"events_attended"`
	CurrentStreak    int             `json:"current_streak"`
	LongestStreak    int             `json:"longest_streak"`
	LastEventDate    *string         `json:"last_event_date"`
	FavoriteCategory string          `json:"favorite_category,omitempty"`
	Badges           []BadgeResponse `json:"badges"`
}

type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"user_id"`
	Name           string  `json:"name"`
	AvatarURL      *string `json:"avatar_url,omitempty"`
	Points         int     `json:"points"`
	EventsAttended int     `json:"events_attended"`
	CurrentStreak  int     `json:"current_streak"`
}
