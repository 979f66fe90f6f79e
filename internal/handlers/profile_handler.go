package handlers

import (
	"context"
	"net/http"

	"testprep-service/internal/models"
	"testprep-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	Service *service.ProfileService
}

func NewProfileHandler(s *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{Service: s}
}

// GetProfile returns the study profile, creating the default on first
// access.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	profile, err := h.Service.Get(context.Background(), userID(c))
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) SetTargetScore(c *gin.Context) {
	var req struct {
		TestType models.TestType `json:"testType" binding:"required"`
		Score    int             `json:"score" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}
	if req.TestType != models.TestTypeSAT && req.TestType != models.TestTypeACT {
		c.JSON(http.StatusBadRequest, gin.H{"error": "testType must be SAT or ACT"})
		return
	}

	profile, err := h.Service.SetTargetScore(context.Background(), userID(c), req.TestType, req.Score)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateWeakAreas(c *gin.Context) {
	var req struct {
		WeakAreas []string `json:"weakAreas"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	profile, err := h.Service.UpdateWeakAreas(context.Background(), userID(c), req.WeakAreas)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}
