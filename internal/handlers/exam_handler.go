package handlers

import (
	"context"
	"net/http"
	"strconv"

	"testprep-service/internal/models"
	"testprep-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ExamHandler struct {
	Service *service.ExamService
}

func NewExamHandler(s *service.ExamService) *ExamHandler {
	return &ExamHandler{Service: s}
}

// ListTests returns the full-test catalog, optionally filtered by type.
func (h *ExamHandler) ListTests(c *gin.Context) {
	ctx := context.Background()
	if raw := c.Query("type"); raw != "" {
		tests, err := h.Service.TestsByType(ctx, models.TestType(raw))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"tests": tests})
		return
	}
	tests, err := h.Service.Tests(ctx)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tests": tests})
}

func (h *ExamHandler) GetTest(c *gin.Context) {
	test, err := h.Service.TestByID(context.Background(), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, test)
}

// StartExam opens a live attempt of a catalog test.
func (h *ExamHandler) StartExam(c *gin.Context) {
	var req struct {
		TestID string `json:"testId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	exam, replaced, err := h.Service.Start(context.Background(), userID(c), req.TestID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"exam": exam, "replaced": replaced})
}

// AnswerQuestion upserts one answer in the live attempt. A null
// selectedOption records a skip.
func (h *ExamHandler) AnswerQuestion(c *gin.Context) {
	var req struct {
		SectionIndex     int    `json:"sectionIndex"`
		QuestionIndex    int    `json:"questionIndex"`
		QuestionID       string `json:"questionId" binding:"required"`
		SelectedOption   *int   `json:"selectedOption"`
		IsCorrect        bool   `json:"isCorrect"`
		TimeSpentSeconds int    `json:"timeSpent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	exam, err := h.Service.Answer(userID(c), req.SectionIndex, req.QuestionIndex, req.QuestionID, req.SelectedOption, req.IsCorrect, req.TimeSpentSeconds)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, exam)
}

// FinishExam scores and seals the live attempt.
func (h *ExamHandler) FinishExam(c *gin.Context) {
	var req struct {
		Duration int `json:"duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	result, err := h.Service.Finish(context.Background(), userID(c), req.Duration)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *ExamHandler) GetCurrentExam(c *gin.Context) {
	exam := h.Service.Current(userID(c))
	if exam == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active exam"})
		return
	}
	c.JSON(http.StatusOK, exam)
}

func (h *ExamHandler) GetResult(c *gin.Context) {
	result, err := h.Service.ResultByID(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetResults lists the user's results; testId and limit query parameters
// narrow the listing.
func (h *ExamHandler) GetResults(c *gin.Context) {
	ctx := context.Background()

	if testID := c.Query("testId"); testID != "" {
		results, err := h.Service.ResultsForTest(ctx, userID(c), testID)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		results, err := h.Service.RecentResults(ctx, userID(c), limit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": results})
		return
	}

	results, err := h.Service.Results(ctx, userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// GetHighestScore returns the best overall score for a test type.
func (h *ExamHandler) GetHighestScore(c *gin.Context) {
	testType := models.TestType(c.Query("testType"))
	if testType != models.TestTypeSAT && testType != models.TestTypeACT {
		c.JSON(http.StatusBadRequest, gin.H{"error": "testType must be SAT or ACT"})
		return
	}
	highest, err := h.Service.HighestScore(context.Background(), userID(c), testType)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"testType": testType, "highestScore": highest})
}
