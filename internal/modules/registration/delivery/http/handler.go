package http

import (
	"net/http"
	"strconv"

	"campus.clubhub.id/clubhub/internal/modules/registration/dto"
	"campus.clubhub.id/clubhub/internal/modules/registration/service"
	"campus.clubhub.id/clubhub/pkg/response"
	"campus.clubhub.id/clubhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	service service.RegistrationService
}

func NewRegistrationHandler(service service.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// POST /events/:id/register
func (h *RegistrationHandler) Register(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input dto.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	// Logged-in participants always register as themselves.
	if email := c.GetString("user_email"); email != "" {
		input.Email = email
	}

	result, err := h.service.Register(c.Request.Context(), uint(eventID), input.ParticipantName, input.Email)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}

	c.JSON(status, gin.H{
		"message": result.Message,
		"data":    result.Registration,
	})
}

// DELETE /events/:id/register
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	email := c.GetString("user_email")
	if email == "" {
		var input dto.CancelInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
			return
		}
		email = input.Email
	}

	if err := h.service.Cancel(c.Request.Context(), uint(eventID), email); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": service.MsgCancelled})
}

// GET /leader/events/:id/registrations
func (h *RegistrationHandler) ListForLeader(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	regs, err := h.service.ListForLeader(c.Request.Context(), leaderID, uint(eventID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": regs})
}

// GET /registrations/:id/qr
func (h *RegistrationHandler) QRImage(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid registration ID"})
		return
	}

	png, err := h.service.QRImage(c.Request.Context(), uint(id), c.GetString("user_email"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}
