package model

import "time"

// EventInsight holds per-event counters. Views are buffered in Redis and
// synced here periodically by a background worker.
type EventInsight struct {
	EventID   uint      `gorm:"primaryKey" json:"event_id"`
	Event     Event     `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Views     int       `gorm:"default:0" json:"views"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
