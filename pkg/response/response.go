package response

import (
	"log"
	"net/http"

	"cryptoheaven.app/api/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// GetAuthID retrieves the authenticated external user id from the context.
// It is set by the auth middleware from the token subject.
func GetAuthID(c *gin.Context) (string, error) {
	authID, exists := c.Get("auth_id")
	if !exists {
		return "", apperror.ErrUnauthorized
	}

	id, ok := authID.(string)
	if !ok || id == "" {
		return "", apperror.ErrUnauthorized
	}

	return id, nil
}

// ResponseError standardized error response
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	// Log internal errors
	if code == http.StatusInternalServerError {
		log.Printf("[Internal Error]: %v", err)
	}

	c.JSON(code, gin.H{"error": err.Error()})
}
