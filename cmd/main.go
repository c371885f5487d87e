package main

import (
	"fmt"
	"log"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"

	"klimarechner/internal/caching"
	"klimarechner/internal/config"
	"klimarechner/internal/handlers"
	"klimarechner/internal/jobs"
	"klimarechner/internal/mailer"
	"klimarechner/internal/middleware"
	"klimarechner/internal/obs"
	"klimarechner/internal/repositories"
	"klimarechner/internal/services"
	"klimarechner/pkg/database"
)

func main() {
	cfg := config.Load()

	pool, err := database.NewPool(cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	cacheSvc := caching.NewRedisCacheService(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)

	obs.Init()

	// Repositories
	accountRepo := repositories.NewAccountRepo(pool)
	profileRepo := repositories.NewUserProfileRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	itemRepo := repositories.NewItemRepo(pool)
	auditRepo := repositories.NewAuditLogsRepo(pool)

	// Mailer: log-only unless MailerSend is configured
	var mailSvc mailer.Service
	if cfg.Email.MailerSendKey != "" && cfg.Email.FromEmail != "" {
		mailSvc = mailer.NewMailerSendService(cfg.Email.MailerSendKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		log.Printf("MailerSend not configured, logging emails instead")
		mailSvc = mailer.NewDevService()
	}

	// Services
	passwordSvc := services.NewPasswordService()
	tokenSvc := services.NewTokenService(cfg.Auth.JWTSecret)
	auditSvc := services.NewAuditService(auditRepo)
	accountSvc := services.NewAccountService(accountRepo, profileRepo, passwordSvc, tokenSvc, auditSvc, mailSvc, services.Links{
		ApproveURL: cfg.Server.BaseURL + "/v1/verify/approve",
		RejectURL:  cfg.Server.BaseURL + "/v1/verify/reject",
	})
	itemSvc := services.NewItemService(itemRepo, cacheSvc, auditSvc)
	categorySvc := services.NewCategoryService(categoryRepo, itemRepo)
	profileSvc := services.NewProfileService(profileRepo)

	// Handlers
	authHandlers := handlers.NewAuthHandlers(accountSvc, auditSvc)
	verifyHandlers := handlers.NewVerifyHandlers(accountSvc, tokenSvc, cfg.Pages)
	itemHandlers := handlers.NewItemHandlers(itemSvc, auditSvc)
	categoryHandlers := handlers.NewCategoryHandlers(categorySvc, auditSvc)
	profileHandlers := handlers.NewProfileHandlers(profileSvc, itemSvc)
	auditHandlers := handlers.NewAuditLogsHandlers(auditSvc)
	healthHandlers := handlers.NewHealthHandlers(pool, cacheSvc)

	// Background jobs
	scheduler, err := jobs.NewScheduler(itemSvc)
	if err != nil {
		log.Fatalf("Failed to create job scheduler: %v", err)
	}
	scheduler.Start()
	defer func() {
		if err := scheduler.Stop(); err != nil {
			log.Printf("Failed to stop scheduler: %v", err)
		}
	}()

	e := echo.New()
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Use(echoMiddleware.Logger())
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORS())
	e.Use(echoMiddleware.RemoveTrailingSlash())
	e.Use(obs.Instrument())

	e.GET("/health", healthHandlers.HealthCheck)
	e.GET("/metrics", obs.Handler())

	v1 := e.Group("/v1")

	// Public
	auth := v1.Group("/auth")
	auth.POST("/register", authHandlers.Register)
	auth.POST("/login", authHandlers.Login)
	auth.POST("/logout", authHandlers.Logout)
	auth.POST("/reset-password", authHandlers.ResetPassword)
	v1.POST("/admin/register", authHandlers.AdminRegister)
	v1.GET("/verify/approve", verifyHandlers.Approve)
	v1.GET("/verify/reject", verifyHandlers.Reject)
	v1.GET("/items", itemHandlers.ListItems)
	v1.GET("/items/by-name/:name", itemHandlers.GetItemByName)
	v1.GET("/items/:id", itemHandlers.GetItem)
	v1.POST("/items/:id/count", itemHandlers.IncrementCount)
	v1.GET("/categories", categoryHandlers.ListCategories)
	v1.GET("/categories/by-name/:name", categoryHandlers.GetCategoryByName)
	v1.GET("/categories/:id", categoryHandlers.GetCategory)
	v1.GET("/savings", itemHandlers.Summary)

	// Authenticated users: token from cookie, header or query param
	userGate := middleware.UserGate(tokenSvc)
	requireAccount := middleware.RequireAccount(accountSvc)

	user := v1.Group("", userGate, requireAccount)
	user.POST("/auth/change-password", authHandlers.ChangePassword)
	user.GET("/me", authHandlers.Me)
	user.GET("/profile", profileHandlers.GetProfile)
	user.PUT("/profile", profileHandlers.UpdateProfile)
	user.GET("/dashboard", profileHandlers.Dashboard)

	// Administrators: cookie sessions only
	admin := v1.Group("/admin", middleware.AdminGate(tokenSvc), requireAccount, middleware.RequireAdmin(auditSvc))
	admin.POST("/items", itemHandlers.CreateItem)
	admin.PUT("/items/:id", itemHandlers.UpdateItem)
	admin.DELETE("/items/:id", itemHandlers.DeleteItem)
	admin.POST("/categories", categoryHandlers.CreateCategory)
	admin.PUT("/categories/:id", categoryHandlers.UpdateCategory)
	admin.DELETE("/categories/:id", categoryHandlers.DeleteCategory)
	admin.GET("/accounts", authHandlers.ListAccounts)
	admin.GET("/audit-logs", auditHandlers.ListAuditLogs)

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", cfg.Server.Port)))
}
