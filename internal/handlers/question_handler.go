package handlers

import (
	"context"
	"net/http"

	"testprep-service/internal/models"
	"testprep-service/internal/service"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	Service *service.QuestionService
}

func NewQuestionHandler(s *service.QuestionService) *QuestionHandler {
	return &QuestionHandler{Service: s}
}

// ListQuestions returns catalog questions; subject, testType, difficulty
// and topic query parameters narrow the listing.
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	ctx := context.Background()

	var (
		questions []models.Question
		err       error
	)
	switch {
	case c.Query("subject") != "":
		questions, err = h.Service.QuestionsBySubject(ctx, models.SubjectArea(c.Query("subject")))
	case c.Query("testType") != "":
		questions, err = h.Service.QuestionsByTestType(ctx, models.TestType(c.Query("testType")))
	case c.Query("difficulty") != "":
		questions, err = h.Service.QuestionsByDifficulty(ctx, models.Difficulty(c.Query("difficulty")))
	case c.Query("topic") != "":
		questions, err = h.Service.QuestionsByTopic(ctx, c.Query("topic"))
	default:
		questions, err = h.Service.ListQuestions(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	question, err := h.Service.GetQuestion(context.Background(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var question models.Question
	if err := c.ShouldBindJSON(&question); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.CreateQuestion(context.Background(), &question); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, question)
}

func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var update map[string]any
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Service.UpdateQuestion(context.Background(), c.Param("id"), update); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.Service.DeleteQuestion(context.Background(), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
