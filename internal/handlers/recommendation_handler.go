package handlers

import (
	"context"
	"net/http"
	"strconv"

	"learning-service/internal/models"
	"learning-service/internal/service"

	"github.com/gin-gonic/gin"
)

type RecommendationHandler struct {
	Service *service.RecommendationService
}

func NewRecommendationHandler(s *service.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{Service: s}
}

func (h *RecommendationHandler) GetCourseRecommendations(c *gin.Context) {
	userID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	courses, err := h.Service.GetCourseRecommendations(context.Background(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *RecommendationHandler) GetLearningPathRecommendations(c *gin.Context) {
	userID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	paths, err := h.Service.GetLearningPathRecommendations(context.Background(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, paths)
}

// GetPersonalizedRecommendations accepts optional preferences in the request
// body; when the body is empty the user's stored preferences apply.
func (h *RecommendationHandler) GetPersonalizedRecommendations(c *gin.Context) {
	userID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	var prefs *models.Preferences
	if c.Request.ContentLength > 0 {
		var body models.Preferences
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prefs = &body
	}

	courses, err := h.Service.GetPersonalizedRecommendations(context.Background(), userID, prefs, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *RecommendationHandler) GetSimilarCourses(c *gin.Context) {
	courseID := c.Param("id")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	courses, err := h.Service.GetSimilarCourses(context.Background(), courseID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}
