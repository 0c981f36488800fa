package handlers

import (
	"errors"
	"net/http"

	"restaurant_backend/internal/middleware"
	"restaurant_backend/internal/models"
	"restaurant_backend/internal/services"
	"restaurant_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

var exposeErrorDetails bool

// ExposeErrorDetails controls whether 500 responses carry the underlying error text. Enable only in development.
func ExposeErrorDetails(enabled bool) {
	exposeErrorDetails = enabled
}

// respondServiceError maps a service error kind to its HTTP status. Unclassified errors become a 500.
func respondServiceError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, err.Error(), ""))
	case errors.Is(err, services.ErrConflict):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeConflict, err.Error(), ""))
	case errors.Is(err, services.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, err.Error(), ""))
	case errors.Is(err, services.ErrForbidden):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, err.Error(), ""))
	case errors.Is(err, services.ErrAuth):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid credentials", ""))
	default:
		utils.LogError(err, op+": unexpected error", map[string]interface{}{"request_id": c.GetString(utils.RequestIDKey)})
		details := ""
		if exposeErrorDetails {
			details = err.Error()
		}
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Server error", details))
	}
}

func respondBindError(c *gin.Context, err error) {
	utils.RespondValidationFailed(c, err.Error())
}

// parseID reads the :id path parameter, responding with 400 when it is not a positive integer.
func parseID(c *gin.Context) (int64, bool) {
	id, err := utils.StrToInt64(c.Param("id"))
	if err != nil || id <= 0 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid ID format.", ""))
		return 0, false
	}
	return id, true
}

// actorFrom builds the caller identity placed in the context by the auth middleware.
func actorFrom(c *gin.Context) services.Actor {
	role, _ := c.Get(middleware.ContextUserRole)
	r, _ := role.(models.Role)
	return services.Actor{UserID: c.GetInt64(middleware.ContextUserID), Role: r}
}

func respondMessage(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}
