package dto

import "campus.clubhub.id/clubhub/internal/model"

type UpdateClubInput struct {
	Name        string `json:"name" binding:"omitempty,min=3,max=100"`
	Description string `json:"description" binding:"omitempty,min=10"`
	Category    string `json:"category" binding:"omitempty,max=50"`
}

type ClubFilter struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// ClubOverview is the university admin listing row.
type ClubOverview struct {
	Club              model.Club `json:"club"`
	EventCount        int64      `json:"event_count"`
	RegistrationCount int64      `json:"registration_count"`
}
