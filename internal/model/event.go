package model

import "time"

type Event struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ClubID      uint      `gorm:"index;not null" json:"club_id"`
	Club        Club      `gorm:"constraint:OnDelete:CASCADE" json:"club"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Date        time.Time `gorm:"type:date;not null;index" json:"date"`
	Time        string    `gorm:"size:10" json:"time"` // "15:04"
	Location    string    `gorm:"size:255" json:"location"`
	PosterURL   *string   `gorm:"type:text" json:"poster_url,omitempty"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}
