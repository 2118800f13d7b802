package http

import (
	"net/http"
	"strconv"

	"campus.clubhub.id/clubhub/internal/modules/gamification/service"
	"campus.clubhub.id/clubhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type GamificationHandler struct {
	service service.GamificationService
}

func NewGamificationHandler(service service.GamificationService) *GamificationHandler {
	return &GamificationHandler{service: service}
}

// GET /gamification/me
func (h *GamificationHandler) MyStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.service.StatsFor(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// GET /gamification/leaderboard?limit=10
func (h *GamificationHandler) Leaderboard(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	entries, err := h.service.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
