package dto

import "campus.clubhub.id/clubhub/internal/model"

type CreateEventInput struct {
	Title       string `json:"title" binding:"required,min=3,max=255"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"required,datetime=2006-01-02"`
	Time        string `json:"time" binding:"omitempty,datetime=15:04"`
	Location    string `json:"location" binding:"omitempty,max=255"`
}

type UpdateEventInput struct {
	Title       string `json:"title" binding:"omitempty,min=3,max=255"`
	Description string `json:"description"`
	Date        string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	Time        string `json:"time" binding:"omitempty,datetime=15:04"`
	Location    string `json:"location" binding:"omitempty,max=255"`
}

type EventFilter struct {
	Category string `form:"category"`
	Date     string `form:"date"`
	Search   string `form:"search"`
	Upcoming bool   `form:"upcoming"`
	Page     int    `form:"page"`
	Limit    int    `form:"limit"`
}

type EventDetail struct {
	model.Event
	Views int `json:"views"`
}

// DashboardEntry is one row of the leader dashboard.
type DashboardEntry struct {
	model.Event
	Registrations int64 `json:"registrations"`
	Views         int   `json:"views"`
}
