package router

import (
	"context"
	"time"

	"workforce/internal/config"
	"workforce/internal/handler"
	"workforce/internal/infra"
	"workforce/internal/middleware"
	"workforce/internal/model"
	"workforce/internal/repository"
	"workforce/internal/service"
	"workforce/internal/session"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Deps are the long-lived resources owned by main.
type Deps struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Notifier service.Notifier
	// Mailer is nil when SMTP is not configured.
	Mailer *infra.Mailer
}

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis.
// ctx bounds the background purge of the rate limiters.
func New(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	apiLimiter := middleware.NewRateLimiter("api", cfg.RateLimitPerMinute, time.Minute,
		"too many requests, try again in a moment")
	loginLimiter := middleware.NewRateLimiter("login", cfg.LoginRateLimitPerMinute, time.Minute,
		"too many login attempts, try again in a minute")
	go apiLimiter.RunPurge(ctx, 5*time.Minute)
	go loginLimiter.RunPurge(ctx, 5*time.Minute)

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigin))
	r.Use(middleware.ErrorHandler())
	r.Use(apiLimiter.Handler())

	// ── Infrastructure ───────────────────────────────────────────────────────
	issuer := session.NewIssuer(cfg.JWTSecret, cfg.SessionTTL())
	var revoker service.TokenRevoker
	var revoked middleware.RevocationChecker
	if deps.Redis != nil {
		tokens := infra.NewTokenStore(deps.Redis)
		revoker, revoked = tokens, tokens
	}

	// ── Repositories ─────────────────────────────────────────────────────────
	companyRepo := repository.NewCompanyRepository(deps.DB)
	userRepo := repository.NewUserRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	hoursRepo := repository.NewHoursRepository(deps.DB)
	signatureRepo := repository.NewSignatureRepository(deps.DB)
	requestRepo := repository.NewRequestRepository(deps.DB)
	noteRepo := repository.NewNoteRepository(deps.DB)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, issuer, revoker)
	companySvc := service.NewCompanyService(companyRepo)
	userSvc := service.NewUserService(userRepo)
	taskSvc := service.NewTaskService(taskRepo, userRepo, deps.Notifier)
	hoursSvc := service.NewHoursService(hoursRepo, signatureRepo, userRepo, companyRepo, infra.TimesheetPDF{FontPath: cfg.PDFFontPath})
	signatureSvc := service.NewSignatureService(signatureRepo, userRepo, companyRepo)
	requestSvc := service.NewRequestService(requestRepo, userRepo, deps.Notifier)
	noteSvc := service.NewNoteService(noteRepo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc, handler.CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.CookieSecure,
		TTL:    cfg.SessionTTL(),
	})
	companiesH := handler.NewCompaniesHandler(companySvc)
	usersH := handler.NewUsersHandler(userSvc)
	tasksH := handler.NewTasksHandler(taskSvc)
	hoursH := handler.NewHoursHandler(hoursSvc)
	signaturesH := handler.NewSignaturesHandler(signatureSvc)
	requestsH := handler.NewRequestsHandler(requestSvc)
	notesH := handler.NewNotesHandler(noteSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(deps.DB, deps.Redis, deps.Mailer))
	r.POST("/api/auth", loginLimiter.Handler(), authH.Login)

	// Protected routes: Bearer token or session cookie
	api := r.Group("/api", middleware.SessionAuth(issuer, cfg.SessionCookieName, revoked))
	{
		api.GET("/auth", authH.Me)
		api.DELETE("/auth", authH.Logout)
		api.POST("/auth/refresh", authH.Refresh)

		api.GET("/companies", companiesH.List)
		companies := api.Group("/companies", middleware.RequireRole(model.RoleAdmin))
		{
			companies.POST("", companiesH.Create)
			companies.PATCH("", companiesH.Update)
			companies.DELETE("", companiesH.Delete)
		}

		api.GET("/users", usersH.List)
		api.POST("/users", usersH.Create)
		api.PATCH("/users", usersH.Update)
		api.DELETE("/users", usersH.Delete)

		api.GET("/tasks", tasksH.List)
		tasks := api.Group("/tasks", middleware.RequireRole(model.RoleAdmin, model.RoleCEO, model.RoleEmployee))
		{
			tasks.POST("", tasksH.Create)
			tasks.PATCH("", tasksH.Update)
			tasks.DELETE("", tasksH.Delete)
			tasks.POST("/subtasks", tasksH.CreateSubtask)
			tasks.POST("/:id/start", tasksH.Start)
			tasks.POST("/:id/pause", tasksH.Pause)
			tasks.POST("/:id/block", tasksH.Block)
			tasks.POST("/:id/complete", tasksH.Complete)
		}

		api.GET("/hours", hoursH.Month)
		api.GET("/hours/report", hoursH.Report)
		api.POST("/hours", hoursH.Upsert)
		api.DELETE("/hours", hoursH.Delete)

		api.GET("/signatures", signaturesH.List)
		api.POST("/signatures", signaturesH.Sign)
		api.DELETE("/signatures", middleware.RequireRole(model.RoleAdmin, model.RoleCEO, model.RoleEmployee), signaturesH.Delete)

		api.GET("/requests", requestsH.List)
		api.POST("/requests", middleware.RequireRole(model.RoleWorker), requestsH.Create)
		api.PATCH("/requests", middleware.RequireRole(model.RoleAdmin, model.RoleCEO, model.RoleEmployee), requestsH.Update)
		api.DELETE("/requests", middleware.RequireRole(model.RoleAdmin, session.EffectiveCEO), requestsH.Delete)

		api.GET("/notes", notesH.Get)
		api.PUT("/notes", notesH.Save)
	}

	// Swagger UI: only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
