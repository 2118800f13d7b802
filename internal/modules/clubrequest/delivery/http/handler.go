package http

import (
	"net/http"
	"strconv"

	"campus.clubhub.id/clubhub/internal/modules/clubrequest/dto"
	"campus.clubhub.id/clubhub/internal/modules/clubrequest/service"
	"campus.clubhub.id/clubhub/pkg/response"
	"campus.clubhub.id/clubhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ClubRequestHandler struct {
	service service.ClubRequestService
}

func NewClubRequestHandler(service service.ClubRequestService) *ClubRequestHandler {
	return &ClubRequestHandler{service: service}
}

// POST /club-requests
func (h *ClubRequestHandler) Submit(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateClubRequestInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	req, err := h.service.Submit(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Club request submitted for review.",
		"data":    req,
	})
}

// GET /club-requests/mine
func (h *ClubRequestHandler) MyRequests(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	reqs, err := h.service.MyRequests(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

// GET /university/club-requests?status=pending
func (h *ClubRequestHandler) List(c *gin.Context) {
	reqs, err := h.service.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": reqs})
}

// PATCH /university/club-requests/:id
func (h *ClubRequestHandler) Decide(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	var input dto.DecideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	req, err := h.service.Decide(c.Request.Context(), uint(id), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Decision recorded.",
		"data":    req,
	})
}
