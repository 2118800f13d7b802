package http

import (
	"net/http"
	"strconv"

	"campus.clubhub.id/clubhub/internal/modules/analytics/service"
	"campus.clubhub.id/clubhub/pkg/response"
	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service service.AnalyticsService
}

func NewAnalyticsHandler(service service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{service: service}
}

// GET /university/analytics/overview
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// GET /university/analytics/popular-clubs?limit=5
func (h *AnalyticsHandler) PopularClubs(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "5"))

	clubs, err := h.service.PopularClubs(c.Request.Context(), limit)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": clubs})
}

// GET /university/analytics/active-days
func (h *AnalyticsHandler) ActiveDays(c *gin.Context) {
	days, err := h.service.ActiveDays(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": days})
}

// GET /university/analytics/attendance
func (h *AnalyticsHandler) Attendance(c *gin.Context) {
	attendance, err := h.service.Attendance(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attendance})
}

// GET /leader/analytics/attendance
func (h *AnalyticsHandler) LeaderAttendance(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	attendance, err := h.service.LeaderAttendance(c.Request.Context(), leaderID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": attendance})
}
