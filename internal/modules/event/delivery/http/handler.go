package http

import (
	"log"
	"net/http"
	"strconv"

	"campus.clubhub.id/clubhub/internal/modules/event/dto"
	"campus.clubhub.id/clubhub/internal/modules/event/service"
	view "campus.clubhub.id/clubhub/internal/modules/view/service"
	pkgdto "campus.clubhub.id/clubhub/pkg/dto"
	"campus.clubhub.id/clubhub/pkg/response"
	"campus.clubhub.id/clubhub/pkg/validator"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
	viewSvc view.ViewService
}

func NewEventHandler(service service.EventService, viewSvc view.ViewService) *EventHandler {
	return &EventHandler{
		service: service,
		viewSvc: viewSvc,
	}
}

// GET /events
func (h *EventHandler) List(c *gin.Context) {
	var filter dto.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	events, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": events,
		"meta": pkgdto.NewPaginationMeta(filter.Page, filter.Limit, total),
	})
}

// GET /events/:id
func (h *EventHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.service.Get(c.Request.Context(), uint(id))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	// Count the view, but never fail the request over it.
	if h.viewSvc != nil {
		viewerKey := c.GetString("user_id")
		if viewerKey == "" {
			viewerKey = c.ClientIP()
		}
		if err := h.viewSvc.IncrementView(c.Request.Context(), event.ID, viewerKey); err != nil {
			log.Printf("Failed to count event view: %v", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"data": event})
}

// POST /leader/events
func (h *EventHandler) Create(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.Create(c.Request.Context(), leaderID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": event})
}

// PUT /leader/events/:id
func (h *EventHandler) Update(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var input dto.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	event, err := h.service.Update(c.Request.Context(), leaderID, uint(id), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": event})
}

// DELETE /leader/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), leaderID, uint(id)); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

// GET /leader/events
func (h *EventHandler) Dashboard(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	entries, err := h.service.Dashboard(c.Request.Context(), leaderID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}

// POST /leader/events/:id/poster
func (h *EventHandler) UploadPoster(c *gin.Context) {
	leaderID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	fileHeader, err := c.FormFile("poster")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "poster file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read poster file"})
		return
	}
	defer file.Close()

	event, err := h.service.UploadPoster(c.Request.Context(), leaderID, uint(id), file, fileHeader.Filename)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": event})
}
