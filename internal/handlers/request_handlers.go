package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequestHandler holds the change-request service.
type RequestHandler struct {
	requestService services.RequestService
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(rs services.RequestService) *RequestHandler {
	return &RequestHandler{requestService: rs}
}

func respondRequestError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from requestService")
	switch {
	case errors.Is(err, services.ErrRequestNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Change request not found.", err.Error()))
	case errors.Is(err, services.ErrRequestAlreadyProcessed):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Change request has already been processed.", err.Error()))
	case errors.Is(err, services.ErrGymNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Gym not found.", err.Error()))
	case errors.Is(err, services.ErrUserNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "User not found.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// SubmitRenameRequest lets a gym owner request a gym rename.
func (h *RequestHandler) SubmitRenameRequest(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req services.SubmitRenameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	request, err := h.requestService.SubmitRenameRequest(userID, req)
	if err != nil {
		respondRequestError(c, err, "submit rename request")
		return
	}
	c.JSON(http.StatusCreated, request)
}

// GetMyRequests lists the submitter's own requests, newest first.
func (h *RequestHandler) GetMyRequests(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	requests, err := h.requestService.GetMyRequests(userID)
	if err != nil {
		respondRequestError(c, err, "fetch requests")
		return
	}
	if requests == nil {
		requests = []models.ChangeRequest{}
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// GetRequests is the super-admin review queue, optionally filtered by status.
func (h *RequestHandler) GetRequests(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	var pStatus *string
	if status := c.Query("status"); status != "" {
		pStatus = &status
	}

	response, err := h.requestService.GetRequests(pStatus, page, pageSize)
	if err != nil {
		respondRequestError(c, err, "fetch requests")
		return
	}
	c.JSON(http.StatusOK, response)
}

// GetRequestByID fetches a single request.
func (h *RequestHandler) GetRequestByID(c *gin.Context) {
	request, err := h.requestService.GetRequest(c.Param("id"))
	if err != nil {
		respondRequestError(c, err, "fetch request")
		return
	}
	c.JSON(http.StatusOK, request)
}

// ApproveRequest approves a pending rename request.
func (h *RequestHandler) ApproveRequest(c *gin.Context) {
	request, err := h.requestService.ApproveRequest(c.Param("id"))
	if err != nil {
		respondRequestError(c, err, "approve request")
		return
	}
	c.JSON(http.StatusOK, request)
}

// RejectRequest rejects a pending rename request with a reason.
func (h *RequestHandler) RejectRequest(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "A rejection reason is required.", err.Error()))
		return
	}

	request, err := h.requestService.RejectRequest(c.Param("id"), req.Reason)
	if err != nil {
		respondRequestError(c, err, "reject request")
		return
	}
	c.JSON(http.StatusOK, request)
}
