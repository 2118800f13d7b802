package http

import (
	"net/http"

	"campus.clubhub.id/clubhub/internal/modules/checkin/dto"
	"campus.clubhub.id/clubhub/internal/modules/checkin/service"
	"campus.clubhub.id/clubhub/pkg/qr"
	"campus.clubhub.id/clubhub/pkg/response"
	"campus.clubhub.id/clubhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type CheckInHandler struct {
	service service.CheckInService
}

func NewCheckInHandler(service service.CheckInService) *CheckInHandler {
	return &CheckInHandler{service: service}
}

// POST /leader/checkin
func (h *CheckInHandler) Scan(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ScanInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	registrationID, err := qr.Decode(input.QRData)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": service.MsgInvalidQR})
		return
	}

	result, err := h.service.CheckIn(c.Request.Context(), registrationID, leaderID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"data": gin.H{
			"registration_id":    result.Registration.ID,
			"event_id":           result.Registration.EventID,
			"participant_name":   result.Registration.ParticipantName,
			"already_checked_in": result.AlreadyCheckedIn,
			"checked_in_at":      result.Registration.CheckedInAt,
		},
	})
}
