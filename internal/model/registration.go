package model

import "time"

// Registration is one (event, email) RSVP row. The unique index closes the
// concurrent duplicate-registration race; cancelled rows are reused on
// re-registration so the pair keeps a single row for its whole history.
type Registration struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EventID         uint       `gorm:"uniqueIndex:idx_registration_event_email,priority:1;not null" json:"event_id"`
	Event           Event      `gorm:"constraint:OnDelete:CASCADE" json:"event"`
	ParticipantName string     `gorm:"size:100;not null" json:"participant_name"`
	Email           string     `gorm:"size:100;uniqueIndex:idx_registration_event_email,priority:2;not null" json:"email"`
	QRCodePath      string     `gorm:"size:255" json:"qr_code_path"`
	Cancelled       bool       `gorm:"default:false" json:"cancelled"`
	CheckedIn       bool       `gorm:"default:false" json:"checked_in"`
	CheckedInAt     *time.Time `json:"checked_in_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
