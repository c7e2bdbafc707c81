package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"learning-service/internal/models"
	"learning-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type AssessmentHandler struct {
	Service   *service.AssessmentService
	Cooldowns *service.CooldownService
	Advice    *service.AdviceService
}

func NewAssessmentHandler(s *service.AssessmentService, cooldowns *service.CooldownService, advice *service.AdviceService) *AssessmentHandler {
	return &AssessmentHandler{Service: s, Cooldowns: cooldowns, Advice: advice}
}

func (h *AssessmentHandler) CreateAssessment(c *gin.Context) {
	var assessment models.Assessment
	if err := c.ShouldBindJSON(&assessment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.CreateAssessment(context.Background(), &assessment); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Referenced question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

// GenerateAssessment creates an assessment from the question bank by tag
// selection instead of an explicit question list.
func (h *AssessmentHandler) GenerateAssessment(c *gin.Context) {
	var req struct {
		CourseID string   `json:"course_id" binding:"required"`
		Title    string   `json:"title" binding:"required"`
		Tags     []string `json:"tags" binding:"required"`
		Count    int      `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	assessment, err := h.Service.GenerateAssessment(context.Background(), req.CourseID, req.Title, req.Tags, req.Count)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, assessment)
}

func (h *AssessmentHandler) GetAssessment(c *gin.Context) {
	id := c.Param("id")
	assessment, err := h.Service.GetAssessment(context.Background(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (h *AssessmentHandler) GetAssessmentForCourse(c *gin.Context) {
	courseID := c.Param("courseId")
	assessment, err := h.Service.GetAssessmentForCourse(context.Background(), courseID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No assessment for course"})
		return
	}
	c.JSON(http.StatusOK, assessment)
}

func (h *AssessmentHandler) UpdateAssessment(c *gin.Context) {
	id := c.Param("id")
	var update map[string]interface{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdateAssessment(context.Background(), id, bson.M(update)); err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *AssessmentHandler) DeleteAssessment(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.DeleteAssessment(context.Background(), id); err != nil {
		if errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// CheckEligibility reports whether the user may attempt the assessment and,
// when blocked, the human-readable reason.
func (h *AssessmentHandler) CheckEligibility(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	eligible, reason, err := h.Service.CanTake(context.Background(), userID, id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"eligible": eligible, "reason": reason})
}

// SubmitAssessment scores the submitted answers, stores the attempt and, when
// the score falls below the cooldown trigger, starts a cooldown on the user.
// The response carries the scored result plus advice for any knowledge gaps.
func (h *AssessmentHandler) SubmitAssessment(c *gin.Context) {
	id := c.Param("id")
	userID := c.GetHeader("X-User-ID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID is required"})
		return
	}

	var req struct {
		Answers   []string  `json:"answers"`
		StartedAt time.Time `json:"started_at"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	startedAt := req.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now().UTC()
	}

	result, err := h.Service.Submit(context.Background(), userID, id, req.Answers, startedAt)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrIneligible):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrAssessmentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Assessment not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	cooldownTriggered := false
	if h.Service.ShouldTriggerCooldown(result) {
		if err := h.Cooldowns.Trigger(context.Background(), userID, result.CourseID, result.KnowledgeGaps); err != nil {
			log.Printf("failed to trigger cooldown for user %s: %v", userID, err)
		} else {
			cooldownTriggered = true
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"result":             result,
		"cooldown_triggered": cooldownTriggered,
		"advice":             h.Advice.GetAdvice(context.Background(), result.KnowledgeGaps),
	})
}

func (h *AssessmentHandler) GetResultsByUser(c *gin.Context) {
	userID := c.Param("id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	results, err := h.Service.GetResultsByUser(context.Background(), userID, limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

func (h *AssessmentHandler) GetResultsByAssessment(c *gin.Context) {
	id := c.Param("id")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	results, err := h.Service.GetResultsByAssessment(context.Background(), id, limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, results)
}

// GetAssessmentStats returns aggregate statistics for one assessment.
func (h *AssessmentHandler) GetAssessmentStats(c *gin.Context) {
	id := c.Param("id")
	avg, err := h.Service.AverageScore(context.Background(), id)
	if err != nil {
		if errors.Is(err, service.ErrResultNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No results for assessment"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment_id": id, "average_score": avg})
}

func (h *AssessmentHandler) CreateConceptLink(c *gin.Context) {
	var link models.ConceptLink
	if err := c.ShouldBindJSON(&link); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Advice.CreateLink(context.Background(), &link); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *AssessmentHandler) ListConceptLinks(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	links, err := h.Advice.ListLinks(context.Background(), limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, links)
}

func (h *AssessmentHandler) UpdateConceptLink(c *gin.Context) {
	id := c.Param("id")
	var update map[string]interface{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Advice.UpdateLink(context.Background(), id, bson.M(update)); err != nil {
		if errors.Is(err, service.ErrConceptLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concept link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *AssessmentHandler) DeleteConceptLink(c *gin.Context) {
	id := c.Param("id")
	if err := h.Advice.DeleteLink(context.Background(), id); err != nil {
		if errors.Is(err, service.ErrConceptLinkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Concept link not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// GetAdvice resolves a list of concept gaps to study resources.
func (h *AssessmentHandler) GetAdvice(c *gin.Context) {
	var req struct {
		Gaps []string `json:"gaps" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.Advice.GetAdvice(context.Background(), req.Gaps))
}
