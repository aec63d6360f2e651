package response

import (
	"net/http"

	"anoa.com/dispatchhub/pkg/apperror"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// GetUserID retrieves the authenticated user ID from the context
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, apperror.ErrUnauthorized
	}

	return userID, nil
}

// Error writes the standardized JSON error body for err.
// Clients display the message field directly, so internals never leak:
// unexpected errors collapse to a generic 500 and get logged here.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
		c.JSON(code, gin.H{"message": "internal server error"})
		return
	}

	c.JSON(code, gin.H{"message": err.Error()})
}
