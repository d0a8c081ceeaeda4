package handlers

import (
	"net/http"

	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// requireGymID pulls the tenant scope set by the auth middleware. Responds 403
// and returns false when the caller has no gym scope (e.g. super admin tokens).
func requireGymID(c *gin.Context) (int64, bool) {
	gymID, ok := middleware.GymIDFromContext(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "This resource requires a gym-scoped account.", ""))
		return 0, false
	}
	return gymID, true
}

// requireUserID pulls the authenticated user ID set by the auth middleware.
func requireUserID(c *gin.Context) (int64, bool) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Authentication required.", ""))
		return 0, false
	}
	return userID, true
}

// parseIDParam parses a numeric path parameter, responding 400 on failure.
func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := utils.StrToInt64(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid "+name+" format.", err.Error()))
		return 0, false
	}
	return id, true
}
