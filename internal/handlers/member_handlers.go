package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MemberHandler holds the member service.
type MemberHandler struct {
	memberService services.MemberService
}

// NewMemberHandler creates a new MemberHandler.
func NewMemberHandler(ms services.MemberService) *MemberHandler {
	return &MemberHandler{memberService: ms}
}

func respondMemberError(c *gin.Context, err error, action string) {
	utils.LogError(err, action+": Error from memberService")
	switch {
	case errors.Is(err, services.ErrMemberNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
	case errors.Is(err, services.ErrPlanNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Plan not found.", err.Error()))
	case errors.Is(err, services.ErrMemberDeleted):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Member is deleted.", err.Error()))
	case errors.Is(err, services.ErrMemberNotDeleted):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Member is not deleted.", err.Error()))
	case errors.Is(err, services.ErrValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to "+action+".", "Internal error"))
	}
}

// CreateMember handles member registration.
func (h *MemberHandler) CreateMember(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	var req services.CreateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateMember: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.CreateMember(gymID, req)
	if err != nil {
		respondMemberError(c, err, "create member")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// GetMembers handles fetching members with pagination and search.
func (h *MemberHandler) GetMembers(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	searchTerm := c.Query("search")
	onlyDeleted := c.Query("deleted") == "true"

	var pSearchTerm *string
	if searchTerm != "" {
		pSearchTerm = &searchTerm
	}

	members, totalCount, err := h.memberService.GetMembers(gymID, page, pageSize, pSearchTerm, onlyDeleted)
	if err != nil {
		respondMemberError(c, err, "fetch members")
		return
	}
	if members == nil {
		members = []models.Member{}
	}

	c.JSON(http.StatusOK, gin.H{
		"data":      members,
		"total":     totalCount,
		"page":      page,
		"page_size": pageSize,
	})
}

// GetMemberByID handles fetching a member's full detail view.
func (h *MemberHandler) GetMemberByID(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	detail, err := h.memberService.GetMemberByID(gymID, memberID)
	if err != nil {
		respondMemberError(c, err, "fetch member")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateMember handles contact/identity updates.
func (h *MemberHandler) UpdateMember(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.UpdateMember(gymID, memberID, req)
	if err != nil {
		respondMemberError(c, err, "update member")
		return
	}
	c.JSON(http.StatusOK, member)
}

// AddSubscription handles membership renewal onto a plan.
func (h *MemberHandler) AddSubscription(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AddSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	member, err := h.memberService.AddSubscription(gymID, memberID, req)
	if err != nil {
		respondMemberError(c, err, "add subscription")
		return
	}
	c.JSON(http.StatusCreated, member)
}

// AddWarning records a warning against a member.
func (h *MemberHandler) AddWarning(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req services.AddWarningRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	addedBy, _ := c.Get(middleware.ContextUsername)
	addedByStr, _ := addedBy.(string)

	warning, err := h.memberService.AddWarning(gymID, memberID, req, addedByStr)
	if err != nil {
		respondMemberError(c, err, "add warning")
		return
	}
	c.JSON(http.StatusCreated, warning)
}

// SoftDeleteMember hides a member from active views.
func (h *MemberHandler) SoftDeleteMember(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.SoftDeleteMember(gymID, memberID); err != nil {
		respondMemberError(c, err, "delete member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted"})
}

// RestoreMember brings a soft-deleted member back.
func (h *MemberHandler) RestoreMember(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.RestoreMember(gymID, memberID); err != nil {
		respondMemberError(c, err, "restore member")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member restored"})
}

// HardDeleteMember permanently purges a soft-deleted member.
func (h *MemberHandler) HardDeleteMember(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}
	memberID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.memberService.HardDeleteMember(gymID, memberID); err != nil {
		respondMemberError(c, err, "purge member")
		return
	}
	c.Status(http.StatusNoContent)
}
