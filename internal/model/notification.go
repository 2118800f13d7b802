package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotifRSVPConfirmed      = "rsvp_confirmed"
	NotifBadgeEarned        = "badge_earned"
	NotifEventReminder      = "event_reminder"
	NotifClubRequestDecided = "club_request_decided"
)

type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Type      string    `gorm:"size:50;not null" json:"type"`
	Message   string    `gorm:"type:text" json:"message"`
	IsRead    bool      `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}
