package handlers

import (
	"errors"
	"net/http"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PlanHandler holds the plan service.
type PlanHandler struct {
	planService services.PlanService
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(ps services.PlanService) *PlanHandler {
	return &PlanHandler{planService: ps}
}

func respondPlanError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from planService")
	switch {
	case errors.Is(err, services.ErrPlanNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Plan not found.", err.Error()))
	case errors.Is(err, services.ErrPlanNameExists):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A plan with this name already exists.", err.Error()))
	case errors.Is(err, services.ErrPlanInUse):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Plan is in use by existing subscriptions.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// CreatePlan handles plan creation.
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	var req services.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	plan, err := h.planService.CreatePlan(gymID, req)
	if err != nil {
		respondPlanError(c, err, "create plan")
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// GetPlans lists the gym's plans.
func (h *PlanHandler) GetPlans(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	plans, err := h.planService.GetPlans(gymID)
	if err != nil {
		respondPlanError(c, err, "fetch plans")
		return
	}
	if plans == nil {
		plans = []models.Plan{}
	}
	c.JSON(http.StatusOK, gin.H{"data": plans})
}

// GetPlanByID fetches a single plan.
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	plan, err := h.planService.GetPlan(gymID, planID)
	if err != nil {
		respondPlanError(c, err, "fetch plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlan handles plan updates.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	plan, err := h.planService.UpdatePlan(gymID, planID, req)
	if err != nil {
		respondPlanError(c, err, "update plan")
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlan removes a plan that no subscription references.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	planID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.planService.DeletePlan(gymID, planID); err != nil {
		respondPlanError(c, err, "delete plan")
		return
	}
	c.Status(http.StatusNoContent)
}
