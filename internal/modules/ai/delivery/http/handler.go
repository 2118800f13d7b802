package http

import (
	"net/http"

	"campus.clubhub.id/clubhub/internal/modules/ai/dto"
	"campus.clubhub.id/clubhub/internal/modules/ai/service"
	"campus.clubhub.id/clubhub/pkg/response"
	"campus.clubhub.id/clubhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type AIHandler struct {
	service service.AIService
}

func NewAIHandler(service service.AIService) *AIHandler {
	return &AIHandler{service: service}
}

// GET /leader/ai/insights
func (h *AIHandler) LeaderInsights(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	insights, err := h.service.LeaderInsights(c.Request.Context(), leaderID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": insights})
}

// GET /ai/recommendations
func (h *AIHandler) Recommendations(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	recs, err := h.service.Recommendations(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recs})
}

// POST /leader/ai/title-suggestions
func (h *AIHandler) SuggestTitles(c *gin.Context) {
	var input dto.SuggestTitlesInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	titles, err := h.service.SuggestTitles(c.Request.Context(), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": titles})
}
