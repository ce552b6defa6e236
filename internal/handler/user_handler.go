package handler

import (
	"errors"
	"net/http"

	"eventsync/internal/middleware"
	"eventsync/internal/repository"
	"eventsync/internal/service"
	apperrors "eventsync/pkg/app_errors"
	"eventsync/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	userService  service.UserService
	eventService service.EventService
}

func NewUserHandler(userService service.UserService, eventService service.EventService) *UserHandler {
	return &UserHandler{userService: userService, eventService: eventService}
}

func (h *UserHandler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	router := r.Group("/api/v1")
	{
		router.GET("users/:uuid", h.Profile)
		router.PATCH("users/:uuid", auth, h.Update)
		router.GET("users/:uuid/current-event", auth, h.CurrentEvent)
		router.DELETE("users/:uuid/events/:eventUuid", auth, h.DeleteEvent)
	}
}

// UpdateUserRequest 更新個人資料請求
type UpdateUserRequest struct {
	Name      *string `json:"name"`
	AvatarURL *string `json:"avatar_url"`
}

func (h *UserHandler) Profile(c *gin.Context) {
	userID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	profile, err := h.userService.Profile(c, userID)
	if err != nil {
		h.handleError(c, err, "Profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) Update(c *gin.Context) {
	userID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	actorID, ok := middleware.UserID(c)
	if !ok || actorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	var req UpdateUserRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if req.Name == nil && req.AvatarURL == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one of name or avatar_url is required"})
		return
	}

	user, err := h.userService.Update(c, userID, repository.UpdateUserParams{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		h.handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) CurrentEvent(c *gin.Context) {
	userID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}

	event, err := h.eventService.CurrentEvent(c, userID)
	if err != nil {
		h.handleError(c, err, "CurrentEvent")
		return
	}
	if event == nil {
		c.JSON(http.StatusOK, gin.H{"current_event": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"current_event": event})
}

// DeleteEvent 刪除活動：授權以 token 身分為準，路徑上的 user uuid 只作為一致性檢查
func (h *UserHandler) DeleteEvent(c *gin.Context) {
	userID, ok := ParseUUIDParam(c, "uuid")
	if !ok {
		return
	}
	eventID, ok := ParseUUIDParam(c, "eventUuid")
	if !ok {
		return
	}
	actorID, ok := middleware.UserID(c)
	if !ok || actorID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	if err := h.eventService.Delete(c, eventID, actorID); err != nil {
		h.handleError(c, err, "DeleteEvent")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		log.Warn("User not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
	case errors.Is(err, apperrors.ErrEventNotFound):
		log.Warn("Event not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
	case errors.Is(err, apperrors.ErrForbidden):
		log.Warn("Forbidden")
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, apperrors.ErrInvalidInput):
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
