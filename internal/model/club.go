package model

import (
	"time"

	"github.com/google/uuid"
)

type Club struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"size:100;not null" json:"name"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"size:50;index" json:"category"`
	LeaderID    *uuid.UUID `gorm:"type:uuid" json:"leader_id"`
	Leader      *User      `gorm:"foreignKey:LeaderID;constraint:OnDelete:SET NULL" json:"leader,omitempty"`
	Events      []Event    `gorm:"foreignKey:ClubID" json:"events,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
