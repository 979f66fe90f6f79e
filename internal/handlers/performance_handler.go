package handlers

import (
	"context"
	"net/http"
	"strconv"

	"testprep-service/internal/adaptive"
	"testprep-service/internal/models"

	"github.com/gin-gonic/gin"
)

type PerformanceHandler struct {
	Tracker *adaptive.Tracker
}

func NewPerformanceHandler(tracker *adaptive.Tracker) *PerformanceHandler {
	return &PerformanceHandler{Tracker: tracker}
}

// GetPerformance returns the user's full record set, creating it on first
// access.
func (h *PerformanceHandler) GetPerformance(c *gin.Context) {
	performances, err := h.Tracker.Initialize(context.Background(), userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"performances": performances,
		"recommended":  adaptive.RecommendedSubjects(performances),
	})
}

// RecordOutcome folds a single question outcome into the subject's record.
func (h *PerformanceHandler) RecordOutcome(c *gin.Context) {
	var req struct {
		Subject   models.SubjectArea `json:"subject" binding:"required"`
		IsCorrect bool               `json:"isCorrect"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if !req.Subject.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subject"})
		return
	}

	performances, err := h.Tracker.RecordOutcome(context.Background(), userID(c), req.Subject, req.IsCorrect)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"performances": performances,
		"recommended":  adaptive.RecommendedSubjects(performances),
	})
}

// GetRecommendedSubjects returns the user's weakest areas to practice next.
func (h *PerformanceHandler) GetRecommendedSubjects(c *gin.Context) {
	performances, err := h.Tracker.Initialize(context.Background(), userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": adaptive.RecommendedSubjects(performances)})
}

// GetWeakestSubjects ranks a test type's subjects by correct rate.
func (h *PerformanceHandler) GetWeakestSubjects(c *gin.Context) {
	testType := models.TestType(c.Query("testType"))
	if testType != models.TestTypeSAT && testType != models.TestTypeACT {
		c.JSON(http.StatusBadRequest, gin.H{"error": "testType must be SAT or ACT"})
		return
	}
	limit := 3
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = parsed
	}

	subjects, err := h.Tracker.WeakestSubjects(context.Background(), userID(c), testType, limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subjects": subjects})
}

// GetRecommendedDifficulty returns the tier the user should practice at.
func (h *PerformanceHandler) GetRecommendedDifficulty(c *gin.Context) {
	subject := models.SubjectArea(c.Query("subject"))
	if !subject.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subject"})
		return
	}
	difficulty, err := h.Tracker.RecommendedDifficulty(context.Background(), userID(c), subject)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subject": subject, "difficulty": difficulty})
}
