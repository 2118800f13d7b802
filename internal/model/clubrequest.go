package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ClubRequestPending  = "pending"
	ClubRequestApproved = "approved"
	ClubRequestRejected = "rejected"
)

type ClubRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	ProposerID      uuid.UUID  `gorm:"type:uuid;index;not null" json:"proposer_id"`
	Proposer        User       `gorm:"foreignKey:ProposerID" json:"-"`
	Name            string     `gorm:"size:100;not null" json:"name"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	Category        string     `gorm:"size:50" json:"category"`
	Mission         string     `gorm:"type:text" json:"mission"`
	TargetAudience  string     `gorm:"size:255" json:"target_audience"`
	ActivitiesPlan  string     `gorm:"type:text" json:"activities_plan"`
	Status          string     `gorm:"size:20;not null;default:pending" json:"status"` // 'pending', 'approved', 'rejected'
	DecisionMessage string     `gorm:"type:text" json:"decision_message"`
	DecidedAt       *time.Time `json:"decided_at,omitempty"`
	// Decisions stay hidden from the proposer until this moment.
	VisibleFrom *time.Time `json:"visible_from,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
