package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/clubatlas/club-adm-api/internal/handler"
	"github.com/clubatlas/club-adm-api/internal/middleware"
	"github.com/clubatlas/club-adm-api/internal/models"
	"github.com/clubatlas/club-adm-api/internal/service"
	"github.com/clubatlas/club-adm-api/pkg/config"
	"github.com/clubatlas/club-adm-api/pkg/logger"
	corsmiddleware "github.com/clubatlas/club-adm-api/pkg/middleware/cors"
	reqidmiddleware "github.com/clubatlas/club-adm-api/pkg/middleware/requestid"
)

// Handlers bundles every HTTP handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Users        *handler.UserHandler
	Players      *handler.PlayerHandler
	Guardians    *handler.GuardianHandler
	Dues         *handler.DueHandler
	Payments     *handler.PaymentHandler
	Attendance   *handler.AttendanceHandler
	Trainings    *handler.TrainingHandler
	Events       *handler.EventHandler
	Certificates *handler.CertificateHandler
	Dashboard    *handler.DashboardHandler
	Reports      *handler.ReportHandler
}

// Middlewares holds the request-scoped guards applied to protected routes.
type Middlewares struct {
	JWT        gin.HandlerFunc
	Scope      gin.HandlerFunc
	Invalidate gin.HandlerFunc
	Metrics    *service.MetricsService
}

// New builds the gin engine with all routes mounted under the API prefix.
func New(cfg *config.Config, logr *zap.Logger, h Handlers, mw Middlewares) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(mw.Metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(mw.Metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
		auth.POST("/logout", mw.JWT, h.Auth.Logout)
		auth.POST("/change-password", mw.JWT, h.Auth.ChangePassword)
		auth.GET("/me", mw.JWT, h.Auth.Me)
	}

	protected := api.Group("")
	protected.Use(mw.JWT, mw.Scope)
	if mw.Invalidate != nil {
		protected.Use(mw.Invalidate)
	}

	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleCoach)
	anyRole := middleware.RequireRoles(models.RoleAdmin, models.RoleCoach, models.RolePlayer, models.RoleGuardian)
	adminOrPlayer := middleware.RequireRoles(models.RoleAdmin, models.RolePlayer)

	users := protected.Group("/users", adminOnly)
	{
		users.GET("", h.Users.List)
		users.GET("/:id", h.Users.Get)
		users.POST("", h.Users.Create)
		users.PUT("/:id", h.Users.Update)
		users.DELETE("/:id", h.Users.Delete)
	}

	players := protected.Group("/players")
	{
		players.GET("", anyRole, h.Players.List)
		players.GET("/:id", anyRole, h.Players.Get)
		players.POST("", adminOnly, h.Players.Register)
		players.PUT("/:id", adminOnly, h.Players.Update)
	}

	guardians := protected.Group("/guardians")
	{
		guardians.GET("", staff, h.Guardians.List)
		guardians.GET("/:id", anyRole, h.Guardians.Get)
		guardians.POST("", adminOnly, h.Guardians.Register)
		guardians.PUT("/:id", adminOnly, h.Guardians.Update)
	}

	dues := protected.Group("/dues")
	{
		dues.GET("", anyRole, h.Dues.List)
		dues.GET("/classified", anyRole, h.Dues.Classified)
		dues.GET("/stats", anyRole, h.Dues.Stats)
		dues.GET("/:id", anyRole, h.Dues.Get)
		dues.POST("", adminOnly, h.Dues.Create)
		dues.PUT("/:id", adminOnly, h.Dues.Update)
		dues.DELETE("/:id", adminOnly, h.Dues.Delete)
	}

	payments := protected.Group("/payments")
	{
		payments.GET("", anyRole, h.Payments.List)
		payments.GET("/:id", anyRole, h.Payments.Get)
		payments.POST("", adminOrPlayer, h.Payments.Create)
		payments.DELETE("/:id", adminOnly, h.Payments.Delete)
	}

	attendance := protected.Group("/attendance")
	{
		attendance.GET("", anyRole, h.Attendance.List)
		attendance.GET("/summary/:playerId", anyRole, h.Attendance.Summary)
		attendance.POST("", staff, h.Attendance.Mark)
		attendance.POST("/bulk", staff, h.Attendance.BulkMark)
		attendance.DELETE("/:id", staff, h.Attendance.Delete)
	}

	trainings := protected.Group("/trainings")
	{
		trainings.GET("", anyRole, h.Trainings.List)
		trainings.GET("/upcoming", anyRole, h.Trainings.Upcoming)
		trainings.GET("/:id", anyRole, h.Trainings.Get)
		trainings.POST("", staff, h.Trainings.Create)
		trainings.PUT("/:id", staff, h.Trainings.Update)
		trainings.DELETE("/:id", adminOnly, h.Trainings.Delete)
	}

	events := protected.Group("/events")
	{
		events.GET("", anyRole, h.Events.List)
		events.GET("/upcoming", anyRole, h.Events.Upcoming)
		events.GET("/:id", anyRole, h.Events.Get)
		events.POST("", staff, h.Events.Create)
		events.PUT("/:id", staff, h.Events.Update)
		events.DELETE("/:id", adminOnly, h.Events.Delete)
	}

	certificates := protected.Group("/certificates")
	{
		certificates.GET("", anyRole, h.Certificates.List)
		certificates.GET("/classified", anyRole, h.Certificates.Classified)
		certificates.GET("/:id", anyRole, h.Certificates.Get)
		certificates.GET("/:id/download", anyRole, h.Certificates.Download)
		certificates.POST("", adminOnly, h.Certificates.Issue)
		certificates.DELETE("/:id", adminOnly, h.Certificates.Delete)
	}

	if cfg.Dashboard.Enabled {
		dashboard := protected.Group("/dashboard")
		{
			dashboard.GET("/admin", staff, h.Dashboard.Admin)
			dashboard.GET("/player/:playerId", anyRole, h.Dashboard.Player)
		}
	}

	reports := protected.Group("/reports")
	{
		reports.GET("/dues", staff, h.Reports.Dues)
		reports.GET("/attendance", staff, h.Reports.Attendance)
	}

	return r
}
