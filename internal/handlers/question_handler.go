package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"learning-service/internal/models"
	"learning-service/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
)

type QuestionHandler struct {
	Service *service.QuestionService
}

func NewQuestionHandler(s *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	skip, _ := strconv.ParseInt(c.DefaultQuery("skip", "0"), 10, 64)

	if tags := c.Query("tags"); tags != "" {
		questions, err := h.Service.ListQuestionsByTags(context.Background(), strings.Split(tags, ","), limit, skip)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, questions)
		return
	}

	questions, err := h.Service.ListQuestions(context.Background(), limit, skip)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	id := c.Param("id")
	question, err := h.Service.GetQuestion(context.Background(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) ListQuestionsByAssessment(c *gin.Context) {
	assessmentID := c.Param("id")
	questions, err := h.Service.ListQuestionsByAssessment(context.Background(), assessmentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.CreateQuestion(context.Background(), &question); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	id := c.Param("id")
	var update map[string]interface{}
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdateQuestion(context.Background(), id, bson.M(update)); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.DeleteQuestion(context.Background(), id); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (h *QuestionHandler) AttachToAssessment(c *gin.Context) {
	questionID := c.Param("id")
	assessmentID := c.Param("assessmentId")
	if err := h.Service.AttachToAssessment(context.Background(), questionID, assessmentID); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) || errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "attached"})
}

func (h *QuestionHandler) DetachFromAssessment(c *gin.Context) {
	questionID := c.Param("id")
	assessmentID := c.Param("assessmentId")
	if err := h.Service.DetachFromAssessment(context.Background(), questionID, assessmentID); err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) || errors.Is(err, service.ErrAssessmentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "detached"})
}
