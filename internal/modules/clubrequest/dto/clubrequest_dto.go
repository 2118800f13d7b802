package dto

type CreateClubRequestInput struct {
	Name           string `json:"name" binding:"required,min=3,max=100"`
	Description    string `json:"description" binding:"required,min=10"`
	Category       string `json:"category" binding:"omitempty,max=50"`
	Mission        string `json:"mission" binding:"omitempty"`
	TargetAudience string `json:"target_audience" binding:"omitempty,max=255"`
	ActivitiesPlan string `json:"activities_plan" binding:"omitempty"`
}

type DecideInput struct {
	Status  string `json:"status" binding:"required,oneof=approved rejected"`
	Message string `json:"message" binding:"omitempty,max=1000"`
	// Hours to keep the decision hidden from the proposer. Zero publishes it
	// immediately.
	DelayHours int `json:"delay_hours" binding:"omitempty,min=0,max=168"`
}
