package http

import (
	"net/http"
	"strconv"

	"campus.clubhub.id/clubhub/internal/modules/club/dto"
	"campus.clubhub.id/clubhub/internal/modules/club/service"
	"campus.clubhub.id/clubhub/pkg/response"
	"campus.clubhub.id/clubhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type ClubHandler struct {
	service service.ClubService
}

func NewClubHandler(service service.ClubService) *ClubHandler {
	return &ClubHandler{service: service}
}

// GET /clubs
func (h *ClubHandler) List(c *gin.Context) {
	var filter dto.ClubFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	clubs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": clubs})
}

// GET /clubs/:id
func (h *ClubHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	club, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": club})
}

// GET /leader/club
func (h *ClubHandler) MyClub(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	club, err := h.service.MyClub(c.Request.Context(), leaderID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": club})
}

// PUT /leader/club
func (h *ClubHandler) UpdateMyClub(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.UpdateClubInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	club, err := h.service.UpdateMyClub(c.Request.Context(), leaderID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": club})
}

// GET /university/clubs
func (h *ClubHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// DELETE /university/clubs/:id
func (h *ClubHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Club deleted"})
}

// POST /university/clubs/:id/revoke-leader
func (h *ClubHandler) RevokeLeader(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid club ID"})
		return
	}

	if err := h.service.RevokeLeader(c.Request.Context(), uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Leader access revoked"})
}
