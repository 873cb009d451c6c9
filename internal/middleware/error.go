package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swipebite/backend/internal/logger"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// ErrorHandler recovers panics into a JSON 500 and logs every request that
// ended with an attached gin error
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorw("panic recovered",
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
					"error", err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal Server Error"})
			}
		}()

		c.Next()

		for _, ginErr := range c.Errors {
			log.Errorw("request error",
				"path", c.Request.URL.Path,
				"method", c.Request.Method,
				"status", c.Writer.Status(),
				"error", ginErr.Err)
		}
	}
}
