package handler

import (
	"errors"
	"net/http"
	"time"

	"eventsync/internal/middleware"
	"eventsync/internal/model"
	"eventsync/internal/service"
	apperrors "eventsync/pkg/app_errors"
	"eventsync/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:uuid", h.GetByEventID)
		router.POST("events", auth, h.Create)
		router.POST("events/:uuid/join", auth, h.Join)
		router.PUT("events/:uuid/leave", auth, h.Leave)
		router.POST("events/:uuid/join-status", auth, h.JoinStatus)
		router.GET("events/:uuid/participants", h.Participants)
		router.PATCH("events/:uuid", auth, h.UpdateStatus)
	}
}

// CreateEventRequest 建立活動請求
type CreateEventRequest struct {
	Title           string  `json:"title" binding:"required"`
	Description     string  `json:"description" binding:"required"`
	Date            string  `json:"date" binding:"required"`
	Location        string  `json:"location"`
	Category        string  `json:"category"`
	ImageURL        *string `json:"image_url"`
	MaxParticipants int     `json:"max_participants" binding:"required,min=1"`
}

// UpdateEventStatusRequest 更新活動狀態請求
type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c)
	if err != nil {
		h.handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByEventID(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	event, err := h.service.GetByEventID(c, eventID)
	if err != nil {
		h.handleError(c, err, "GetByEventID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	event := &model.Event{
		Title:           req.Title,
		Description:     req.Description,
		Date:            date,
		Location:        req.Location,
		Category:        model.EventCategory(req.Category),
		ImageURL:        req.ImageURL,
		MaxParticipants: req.MaxParticipants,
	}
	created, err := h.service.Create(c, event, userID)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Join(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	event, err := h.service.Join(c, eventID, userID)
	if err != nil {
		h.handleError(c, err, "Join")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Leave(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	event, err := h.service.Leave(c, eventID, userID)
	if err != nil {
		h.handleError(c, err, "Leave")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) JoinStatus(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	userID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
		return
	}

	joined, err := h.service.JoinStatus(c, eventID, userID)
	if err != nil {
		h.handleError(c, err, "JoinStatus")
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_joined": joined})
}

func (h *EventHandler) Participants(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	participants, err := h.service.Participants(c, eventID)
	if err != nil {
		h.handleError(c, err, "Participants")
		return
	}
	c.JSON(http.StatusOK, participants)
}

func (h *EventHandler) UpdateStatus(c *gin.Context) {
	eventID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	var req UpdateEventStatusRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	updated, err := h.service.UpdateStatus(c, eventID, model.EventStatus(req.Status))
	if err != nil {
		h.handleError(c, err, "UpdateStatus")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrEventFull):
		log.Warn("Event is full")
		c.JSON(http.StatusConflict, gin.H{"error": "Event is full"})
	case errors.Is(err, apperrors.ErrEventEnded):
		log.Warn("Event has ended")
		c.JSON(http.StatusConflict, gin.H{"error": "Event has ended"})
	case errors.Is(err, apperrors.ErrNotJoined):
		log.Warn("Not a participant")
		c.JSON(http.StatusConflict, gin.H{"error": "Not a participant"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
