package router

import (
	"database/sql"

	"gym_crm_backend/internal/cache"
	"gym_crm_backend/internal/handlers"
	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application. redisClient may be nil;
// idempotent payment replay is then disabled and requests pass straight
// through.
func Setup(engine *gin.Engine, db *sql.DB, redisClient *cache.Redis) {
	// Initialize Repositories
	userRepo := repositories.NewUserRepository(db)
	gymRepo := repositories.NewGymRepository(db)
	planRepo := repositories.NewPlanRepository(db)
	counterRepo := repositories.NewCounterRepository()
	memberRepo := repositories.NewMemberRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	requestRepo := repositories.NewChangeRequestRepository(db)

	// Initialize Services
	authService := services.NewAuthService(userRepo, gymRepo, db)
	gymService := services.NewGymService(gymRepo)
	planService := services.NewPlanService(planRepo, db)
	memberService := services.NewMemberService(memberRepo, paymentRepo, planRepo, counterRepo, db)
	paymentService := services.NewPaymentService(memberRepo, paymentRepo, db)
	revenueService := services.NewRevenueService(memberRepo, paymentRepo, requestRepo)
	requestService := services.NewRequestService(requestRepo, gymRepo, userRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	gymHandler := handlers.NewGymHandler(gymService)
	planHandler := handlers.NewPlanHandler(planService)
	memberHandler := handlers.NewMemberHandler(memberService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	reportHandler := handlers.NewReportHandler(revenueService)
	requestHandler := handlers.NewRequestHandler(requestService)

	apiV1 := engine.Group("/api/v1")

	SetupPublicAuthRoutes(apiV1.Group("/auth"), authHandler)

	authenticated := apiV1.Group("")
	authenticated.Use(middleware.AuthMiddleware())
	{
		SetupAuthenticatedAuthRoutes(authenticated.Group("/auth"), authHandler)
		SetupMemberRoutes(authenticated, memberHandler, paymentHandler, redisClient)
		SetupPlanRoutes(authenticated, planHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupRequestRoutes(authenticated, requestHandler)
		SetupAdminRoutes(authenticated, gymHandler, requestHandler)
	}
}

// SetupPublicAuthRoutes wires the routes reachable without a token.
func SetupPublicAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.POST("/register", authHandler.RegisterGym)
	group.POST("/login", authHandler.Login)
	group.POST("/refresh-token", authHandler.RefreshToken)
}

// SetupAuthenticatedAuthRoutes wires the account routes behind auth.
func SetupAuthenticatedAuthRoutes(group *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	group.GET("/me", authHandler.GetProfile)
	group.POST("/staff", middleware.RoleAuthMiddleware(models.RoleOwner), authHandler.CreateStaff)
}
