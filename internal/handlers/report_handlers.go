package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gym_crm_backend/internal/services"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// ReportHandler holds the revenue service.
type ReportHandler struct {
	revenueService services.RevenueService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(rs services.RevenueService) *ReportHandler {
	return &ReportHandler{revenueService: rs}
}

// GetDashboard returns the gym's dashboard summary.
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	summary, err := h.revenueService.DashboardSummary(gymID)
	if err != nil {
		utils.LogError(err, "GetDashboard: Error from revenueService.DashboardSummary")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to build dashboard.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GetOutstanding returns the gym's total outstanding balance.
func (h *ReportHandler) GetOutstanding(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	total, err := h.revenueService.TotalOutstanding(gymID)
	if err != nil {
		utils.LogError(err, "GetOutstanding: Error from revenueService.TotalOutstanding")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute outstanding balance.", "Internal error"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_outstanding": total})
}

// GetRevenue returns a revenue report. Accepts either an explicit
// start/end date range, or year (+ optional month) query parameters.
func (h *ReportHandler) GetRevenue(c *gin.Context) {
	gymID, ok := requireGymID(c)
	if !ok {
		return
	}

	startStr := c.Query("start")
	endStr := c.Query("end")
	if startStr != "" || endStr != "" {
		start, err := time.Parse("2006-01-02", startStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid start date, use YYYY-MM-DD.", startStr))
			return
		}
		end, err := time.Parse("2006-01-02", endStr)
		if err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid end date, use YYYY-MM-DD.", endStr))
			return
		}
		// End date is inclusive in the query string; the period itself is
		// half-open, so push the boundary one day out.
		h.respondRevenue(c, gymID, start, end.AddDate(0, 0, 1))
		return
	}

	now := time.Now()
	year, err := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid year.", c.Query("year")))
		return
	}

	monthStr := c.Query("month")
	if monthStr == "" {
		report, err := h.revenueService.YearlyRevenue(gymID, year)
		if err != nil {
			h.respondRevenueError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
		return
	}

	month, err := strconv.Atoi(monthStr)
	if err != nil || month < 1 || month > 12 {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid month, use 1-12.", monthStr))
		return
	}
	report, err := h.revenueService.MonthlyRevenue(gymID, year, time.Month(month))
	if err != nil {
		h.respondRevenueError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) respondRevenue(c *gin.Context, gymID int64, start, end time.Time) {
	report, err := h.revenueService.RevenueInPeriod(gymID, start, end)
	if err != nil {
		h.respondRevenueError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) respondRevenueError(c *gin.Context, err error) {
	utils.LogError(err, "GetRevenue: Error from revenueService")
	if errors.Is(err, services.ErrValidation) {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		return
	}
	utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to compute revenue.", "Internal error"))
}
