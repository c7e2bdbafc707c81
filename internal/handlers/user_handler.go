package handlers

import (
	"context"
	"errors"
	"net/http"

	"learning-service/internal/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	Service   *service.UserService
	Cooldowns *service.CooldownService
}

func NewUserHandler(s *service.UserService, cooldowns *service.CooldownService) *UserHandler {
	return &UserHandler{Service: s, Cooldowns: cooldowns}
}

func (h *UserHandler) GetUser(c *gin.Context) {
	id := c.Param("id")
	user, err := h.Service.GetUser(context.Background(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) StartCourse(c *gin.Context) {
	userID := c.Param("id")
	courseID := c.Param("courseId")
	if err := h.Service.StartCourse(context.Background(), userID, courseID); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrCourseNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Course not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course started"})
}

func (h *UserHandler) CompleteCourse(c *gin.Context) {
	userID := c.Param("id")
	courseID := c.Param("courseId")
	if err := h.Service.CompleteCourse(context.Background(), userID, courseID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "course completed"})
}

func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	userID := c.Param("id")
	var patch service.PreferencesPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdatePreferences(context.Background(), userID, patch); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "preferences updated"})
}

// GetCooldown refreshes the live cooldown field and returns the current
// episode derived from the history log.
func (h *UserHandler) GetCooldown(c *gin.Context) {
	userID := c.Param("id")
	if err := h.Cooldowns.Refresh(context.Background(), userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	current, err := h.Cooldowns.Current(context.Background(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": current != nil, "cooldown": current})
}

func (h *UserHandler) GetCooldownHistory(c *gin.Context) {
	userID := c.Param("id")
	history, err := h.Cooldowns.HistoryForUser(context.Background(), userID)
	if err != nil {
		if errors.Is(err, service.ErrHistoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No cooldown history"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}

func (h *UserHandler) DeleteCooldownHistory(c *gin.Context) {
	id := c.Param("historyId")
	if err := h.Cooldowns.DeleteHistory(context.Background(), id); err != nil {
		if errors.Is(err, service.ErrHistoryNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "History not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
