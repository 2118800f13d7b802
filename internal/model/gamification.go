package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRegister = "register"
	ActionCheckIn  = "check_in"

	PointsRegister = 10
	PointsCheckIn  = 20
)

const (
	BadgeFirstEvent = "first_event"
	BadgeStreak7    = "streak_7"
	BadgeStreak30   = "streak_30"
)

// ParticipantStats is the per-user gamification row. Created lazily on the
// first award, never deleted. Points only ever increase; longest_streak is
// always >= current_streak.
type ParticipantStats struct {
	UserID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	User             User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Points           int        `gorm:"default:0" json:"points"`
	EventsRegistered int        `gorm:"default:0" json:"events_registered"`
	EventsAttended   int        `gorm:"default:0" json:"events_attended"`
	CurrentStreak    int        `gorm:"default:0" json:"current_streak"`
	LongestStreak    int        `gorm:"default:0" json:"longest_streak"`
	LastEventDate    *time.Time `gorm:"type:date" json:"last_event_date,omitempty"`
	LastUpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"last_updated_at"`
}

// Badge rows are append-only; the unique (user, type) index guarantees each
// badge is earned at most once.
type Badge struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_badge_user_type,priority:1;not null" json:"user_id"`
	Type        string    `gorm:"size:50;uniqueIndex:idx_badge_user_type,priority:2;not null" json:"type"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	EarnedAt    time.Time `gorm:"autoCreateTime" json:"earned_at"`
}
