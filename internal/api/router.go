package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"gorm.io/gorm"

	"github.com/aprodmayo/management-system/internal/api/handler"
	"github.com/aprodmayo/management-system/internal/api/middleware"
	"github.com/aprodmayo/management-system/internal/core/domain"
	"github.com/aprodmayo/management-system/internal/core/service"
	"github.com/aprodmayo/management-system/internal/infrastructure/db/postgres"
	redisdb "github.com/aprodmayo/management-system/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *gorm.DB, rdb *redis.Client, jwtSecret string, tokenTTL time.Duration, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("aprodmayo"))

	// --- Dependencies ---
	userRepo := postgres.NewUserRepository(db)
	beneficiaryRepo := postgres.NewBeneficiaryRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	memberRepo := postgres.NewMemberRepository(db)
	ledgerRepo := postgres.NewLedgerRepository(db)
	workshopRepo := postgres.NewWorkshopRepository(db)
	denyList := redisdb.NewTokenDenyList(rdb)

	authService := service.NewAuthService(userRepo, denyList, jwtSecret, tokenTTL, log)
	userService := service.NewUserService(userRepo, log)
	beneficiaryService := service.NewBeneficiaryService(beneficiaryRepo, log)
	financeService := service.NewFinanceService(categoryRepo, memberRepo, ledgerRepo, log)
	workshopService := service.NewWorkshopService(workshopRepo, beneficiaryRepo, log)
	reportService := service.NewReportService(ledgerRepo, categoryRepo, memberRepo, beneficiaryRepo, workshopRepo, log)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	beneficiaryHandler := handler.NewBeneficiaryHandler(beneficiaryService)
	financeHandler := handler.NewFinanceHandler(financeService)
	workshopHandler := handler.NewWorkshopHandler(workshopService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	authRequired := middleware.Auth(jwtSecret, denyList, log)
	adminOnly := middleware.RBAC(domain.RoleAdministrator)

	// --- Operational endpoints (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	v1 := e.Group("/api/v1")

	// --- Auth routes ---
	v1.POST("/auth/register", authHandler.Register)
	v1.POST("/auth/login", authHandler.Login)
	v1.POST("/auth/logout", authHandler.Logout, authRequired)

	// --- User administration ---
	users := v1.Group("/users", authRequired)
	users.POST("/password", userHandler.ChangePassword)
	users.POST("", userHandler.Create, adminOnly)
	users.GET("", userHandler.List, adminOnly)
	users.GET("/:id", userHandler.Get, adminOnly)
	users.PUT("/:id", userHandler.Update, adminOnly)
	users.POST("/:id/deactivate", userHandler.Deactivate, adminOnly)

	// --- Beneficiary case records ---
	beneficiaries := v1.Group("/beneficiaries", authRequired, middleware.RequireModule(domain.ModuleBeneficiaries))
	beneficiaries.POST("", beneficiaryHandler.Create)
	beneficiaries.GET("", beneficiaryHandler.Search)
	beneficiaries.GET("/:id", beneficiaryHandler.Get)
	beneficiaries.PATCH("/:id", beneficiaryHandler.Update)
	beneficiaries.POST("/:id/deactivate", beneficiaryHandler.Deactivate)
	beneficiaries.POST("/:id/follow-up", beneficiaryHandler.FlagFollowUp)
	beneficiaries.DELETE("/:id/follow-up", beneficiaryHandler.ClearFollowUp)
	beneficiaries.POST("/:id/visits", beneficiaryHandler.AddVisit)
	beneficiaries.GET("/:id/visits", beneficiaryHandler.ListVisits)

	// --- Finance ledger and member dues ---
	finance := v1.Group("/finance", authRequired, middleware.RequireModule(domain.ModuleFinance))
	finance.POST("/categories", financeHandler.CreateCategory)
	finance.GET("/categories", financeHandler.ListCategories)
	finance.PUT("/categories/:id", financeHandler.UpdateCategory)
	finance.POST("/members", financeHandler.CreateMember)
	finance.GET("/members", financeHandler.ListMembers)
	finance.GET("/members/:id", financeHandler.GetMember)
	finance.PUT("/members/:id", financeHandler.UpdateMember)
	finance.GET("/members/:id/dues", financeHandler.DuesStatus)
	finance.POST("/members/:id/dues", financeHandler.RecordDues)
	finance.POST("/entries", financeHandler.RecordEntry)
	finance.GET("/entries", financeHandler.ListEntries)
	finance.GET("/balance", financeHandler.Balance)
	finance.GET("/balance/categories", financeHandler.BalanceByCategory)

	// --- Workshops, enrollment and certificates ---
	workshops := v1.Group("/workshops", authRequired, middleware.RequireModule(domain.ModuleWorkshops))
	workshops.POST("", workshopHandler.Schedule)
	workshops.GET("", workshopHandler.List)
	workshops.GET("/:id", workshopHandler.Get)
	workshops.PUT("/:id", workshopHandler.Update)
	workshops.POST("/:id/transition", workshopHandler.Transition)
	workshops.POST("/:id/enrollments", workshopHandler.Enroll)
	workshops.GET("/:id/enrollments", workshopHandler.ListEnrollments)
	workshops.DELETE("/:id/enrollments/:beneficiaryId", workshopHandler.Withdraw)
	workshops.POST("/:id/attendance", workshopHandler.RecordAttendance)
	workshops.GET("/:id/attendance-rate", workshopHandler.AttendanceRate)

	workshopAccess := middleware.RequireModule(domain.ModuleWorkshops)
	v1.POST("/enrollments/:id/certificate", workshopHandler.IssueCertificate, authRequired, workshopAccess)
	v1.POST("/certificates/:code/revoke", workshopHandler.RevokeCertificate, authRequired, workshopAccess)

	// --- Reports (reports capability plus the source module) ---
	reports := v1.Group("/reports", authRequired, middleware.RequireModule(domain.ModuleReports))
	reports.GET("/financial", reportHandler.Financial, middleware.RequireModule(domain.ModuleFinance))
	reports.GET("/beneficiaries", reportHandler.Beneficiaries, middleware.RequireModule(domain.ModuleBeneficiaries))
	reports.GET("/workshops", reportHandler.Workshops, middleware.RequireModule(domain.ModuleWorkshops))
	reports.GET("/dashboard", reportHandler.Dashboard)

	return e
}
