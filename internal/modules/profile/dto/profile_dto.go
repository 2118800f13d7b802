package dto

import (
	"time"

	gamedto "campus.clubhub.id/clubhub/internal/modules/gamification/dto"
)

type UpdateProfileInput struct {
	Name string  `json:"name" binding:"omitempty,min=2,max=100"`
	Bio  *string `json:"bio" binding:"omitempty,max=500"`
}

type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	JoinedAt  time.Time `json:"joined_at"`

	// Role-specific sections, at most one is set.
	Stats *gamedto.StatsResponse `json:"stats,omitempty"`
	Club  *LeaderClubSummary     `json:"club,omitempty"`
}

type LeaderClubSummary struct {
	ClubID     uint   `json:"club_id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	EventCount int    `json:"event_count"`
}

type HistoryEntry struct {
	RegistrationID uint       `json:"registration_id"`
	EventID        uint       `json:"event_id"`
	EventTitle     string     `json:"event_title"`
	EventDate      string     `json:"event_date"`
	ClubName       string     `json:"club_name"`
	Cancelled      bool       `json:"cancelled"`
	CheckedIn      bool       `json:"checked_in"`
	CheckedInAt    *time.Time `json:"checked_in_at,omitempty"`
	QRURL          string     `json:"qr_url,omitempty"`
}
