package router

import (
	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/handlers"
	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupMemberRoutes sets up the member routes: registration, ledger views,
// subscriptions, warnings, payments and the delete lifecycle. Payment
// submission goes through the idempotency middleware so retried requests with
// an Idempotency-Key replay instead of double-charging.
func SetupMemberRoutes(authenticatedGroup *gin.RouterGroup, memberHandler *handlers.MemberHandler, paymentHandler *handlers.PaymentHandler, redisClient *cache.Redis) {
	memberRoutes := authenticatedGroup.Group("/members")
	memberRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleStaff), middleware.RequireGymScope())
	{
		memberRoutes.POST("", memberHandler.CreateMember)
		memberRoutes.GET("", memberHandler.GetMembers)
		memberRoutes.GET("/:id", memberHandler.GetMemberByID)
		memberRoutes.PUT("/:id", memberHandler.UpdateMember)
		memberRoutes.DELETE("/:id", memberHandler.SoftDeleteMember)
		memberRoutes.POST("/:id/restore", memberHandler.RestoreMember)
		memberRoutes.DELETE("/:id/purge", memberHandler.HardDeleteMember)

		memberRoutes.POST("/:id/subscriptions", memberHandler.AddSubscription)
		memberRoutes.POST("/:id/warnings", memberHandler.AddWarning)

		memberRoutes.POST("/:id/payments", middleware.Idempotency(redisClient), paymentHandler.RecordPayment)
		memberRoutes.GET("/:id/payments", paymentHandler.GetMemberPayments)
	}
}

// SetupPlanRoutes sets up the plan routes. Plan writes are owner-only; staff
// can read.
func SetupPlanRoutes(authenticatedGroup *gin.RouterGroup, planHandler *handlers.PlanHandler) {
	planWriteRoutes := authenticatedGroup.Group("/plans")
	planWriteRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner), middleware.RequireGymScope())
	{
		planWriteRoutes.POST("", planHandler.CreatePlan)
		planWriteRoutes.PUT("/:id", planHandler.UpdatePlan)
		planWriteRoutes.DELETE("/:id", planHandler.DeletePlan)
	}

	planReadRoutes := authenticatedGroup.Group("/plans")
	planReadRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleStaff), middleware.RequireGymScope())
	{
		planReadRoutes.GET("", planHandler.GetPlans)
		planReadRoutes.GET("/:id", planHandler.GetPlanByID)
	}
}

// SetupReportRoutes sets up the dashboard and revenue report routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/reports")
	reportRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner, models.RoleStaff), middleware.RequireGymScope())
	{
		reportRoutes.GET("/dashboard", reportHandler.GetDashboard)
		reportRoutes.GET("/outstanding", reportHandler.GetOutstanding)
		reportRoutes.GET("/revenue", reportHandler.GetRevenue)
	}
}

// SetupRequestRoutes sets up the change-request routes for gym owners:
// submitting a rename request and tracking their own submissions.
func SetupRequestRoutes(authenticatedGroup *gin.RouterGroup, requestHandler *handlers.RequestHandler) {
	requestRoutes := authenticatedGroup.Group("/requests")
	requestRoutes.Use(middleware.RoleAuthMiddleware(models.RoleOwner), middleware.RequireGymScope())
	{
		requestRoutes.POST("/rename", requestHandler.SubmitRenameRequest)
		requestRoutes.GET("/mine", requestHandler.GetMyRequests)
	}
}

// SetupAdminRoutes sets up the super-admin surface: the tenant directory and
// the change-request review queue.
func SetupAdminRoutes(authenticatedGroup *gin.RouterGroup, gymHandler *handlers.GymHandler, requestHandler *handlers.RequestHandler) {
	adminRoutes := authenticatedGroup.Group("/admin")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleSuperAdmin))
	{
		adminRoutes.GET("/gyms", gymHandler.GetGyms)
		adminRoutes.GET("/gyms/:id", gymHandler.GetGymByID)

		adminRoutes.GET("/requests", requestHandler.GetRequests)
		adminRoutes.GET("/requests/:id", requestHandler.GetRequestByID)
		adminRoutes.POST("/requests/:id/approve", requestHandler.ApproveRequest)
		adminRoutes.POST("/requests/:id/reject", requestHandler.RejectRequest)
	}
}
