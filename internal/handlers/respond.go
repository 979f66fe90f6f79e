package handlers

import (
	"errors"
	"net/http"

	"testprep-service/internal/models"

	"github.com/gin-gonic/gin"
)

// statusFor maps the domain error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrAuthRequired):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrNoActiveSession):
		return http.StatusConflict
	case errors.Is(err, models.ErrNoContent):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// userID returns the authenticated user id set by the auth middleware.
func userID(c *gin.Context) string {
	return c.GetHeader("X-User-ID")
}
