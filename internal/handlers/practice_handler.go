package handlers

import (
	"context"
	"net/http"
	"strconv"

	"testprep-service/internal/models"
	"testprep-service/internal/selection"
	"testprep-service/internal/service"

	"github.com/gin-gonic/gin"
)

type PracticeHandler struct {
	Service   *service.PracticeService
	Selector  *selection.Selector
	Questions *service.QuestionService
}

func NewPracticeHandler(s *service.PracticeService, selector *selection.Selector, questions *service.QuestionService) *PracticeHandler {
	return &PracticeHandler{Service: s, Selector: selector, Questions: questions}
}

// StartSession opens a live practice session over an adaptive question set
// for one subject, or over an explicit question id list when the client
// already chose its questions. Refuses to start when the resulting set is
// empty.
func (h *PracticeHandler) StartSession(c *gin.Context) {
	var req struct {
		Subject     models.SubjectArea `json:"subject" binding:"required"`
		Count       int                `json:"count"`
		QuestionIDs []string           `json:"questionIds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if !req.Subject.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown subject"})
		return
	}
	if req.Count <= 0 {
		req.Count = 10
	}

	ctx := context.Background()
	var questions []models.Question
	var err error
	if len(req.QuestionIDs) > 0 {
		for _, id := range req.QuestionIDs {
			question, err := h.Questions.GetQuestion(ctx, id)
			if err != nil {
				abortWithError(c, err)
				return
			}
			questions = append(questions, *question)
		}
	} else {
		questions, err = h.Selector.SelectQuestions(ctx, userID(c), req.Subject, req.Count)
		if err != nil {
			abortWithError(c, err)
			return
		}
	}

	session, replaced, err := h.Service.Start(userID(c), []models.SubjectArea{req.Subject}, questions)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"session":   session,
		"questions": questions,
		"replaced":  replaced,
	})
}

// AnswerQuestion records the outcome for one question slot of the live
// session and returns the updated live score.
func (h *PracticeHandler) AnswerQuestion(c *gin.Context) {
	var req struct {
		Index            int  `json:"index"`
		SelectedOption   int  `json:"selectedOption"`
		TimeSpentSeconds int  `json:"timeSpent"`
		IsCorrect        bool `json:"isCorrect"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	session, err := h.Service.Answer(userID(c), req.Index, req.SelectedOption, req.TimeSpentSeconds, req.IsCorrect)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// FinishSession seals the live session into history.
func (h *PracticeHandler) FinishSession(c *gin.Context) {
	var req struct {
		Duration int `json:"duration"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	session, err := h.Service.Finish(context.Background(), userID(c), req.Duration)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *PracticeHandler) GetCurrentSession(c *gin.Context) {
	session := h.Service.Current(userID(c))
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active practice session"})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *PracticeHandler) GetSession(c *gin.Context) {
	session, err := h.Service.SessionByID(context.Background(), userID(c), c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetHistory lists finished sessions, optionally limited to the most recent
// or filtered by subject.
func (h *PracticeHandler) GetHistory(c *gin.Context) {
	ctx := context.Background()

	if subject := c.Query("subject"); subject != "" {
		sessions, err := h.Service.SessionsBySubject(ctx, userID(c), models.SubjectArea(subject))
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
		return
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		sessions, err := h.Service.RecentSessions(ctx, userID(c), limit)
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"sessions": sessions})
		return
	}

	sessions, err := h.Service.Sessions(ctx, userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetStats reports the user's average score and total practice time.
func (h *PracticeHandler) GetStats(c *gin.Context) {
	ctx := context.Background()
	average, err := h.Service.AverageScore(ctx, userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	total, err := h.Service.TotalPracticeTime(ctx, userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"averageScore":         average,
		"totalPracticeSeconds": total,
	})
}
