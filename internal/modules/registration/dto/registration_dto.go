package dto

type RegisterInput struct {
	ParticipantName string `json:"participant_name" binding:"required,min=2,max=100"`
	Email           string `json:"email" binding:"required,email"`
}

type CancelInput struct {
	Email string `json:"email" binding:"required,email"`
}
