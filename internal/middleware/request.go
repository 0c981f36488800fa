package middleware

import (
	"fmt"
	"net/http"

	"restaurant_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

// RequestID propagates the caller's X-Request-ID or assigns a fresh one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(utils.RequestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// Recovery turns a panic into the standard 500 error body. Details are only exposed when showDetails is set.
func Recovery(showDetails bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		err := fmt.Errorf("panic: %v", recovered)
		utils.LogError(err, "Recovered from panic", map[string]interface{}{
			"path": c.Request.URL.Path, "request_id": c.GetString(utils.RequestIDKey),
		})
		details := ""
		if showDetails {
			details = err.Error()
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Server error", details))
	})
}
