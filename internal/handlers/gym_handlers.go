package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// GymHandler holds the gym service.
type GymHandler struct {
	gymService services.GymService
}

// NewGymHandler creates a new GymHandler.
func NewGymHandler(gs services.GymService) *GymHandler {
	return &GymHandler{gymService: gs}
}

// GetGyms lists all tenants with pagination.
func (h *GymHandler) GetGyms(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	response, err := h.gymService.GetGyms(page, pageSize)
	if err != nil {
		utils.LogError(err, "GetGyms: Error from gymService.GetGyms")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch gyms.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetGymByID fetches a single tenant.
func (h *GymHandler) GetGymByID(c *gin.Context) {
	gymID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	gym, err := h.gymService.GetGym(gymID)
	if err != nil {
		utils.LogError(err, "GetGymByID: Error from gymService.GetGym")
		if errors.Is(err, services.ErrGymNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Gym not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch gym.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gym)
}
