package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/youngtech-edu/records-api/api/swagger"
	"github.com/youngtech-edu/records-api/internal/graph"
	"github.com/youngtech-edu/records-api/internal/handler"
	"github.com/youngtech-edu/records-api/internal/middleware"
	"github.com/youngtech-edu/records-api/internal/repository"
	"github.com/youngtech-edu/records-api/internal/service"
	"github.com/youngtech-edu/records-api/pkg/config"
	"github.com/youngtech-edu/records-api/pkg/database"
	"github.com/youngtech-edu/records-api/pkg/logger"
	"github.com/youngtech-edu/records-api/pkg/mailer"
	corsmiddleware "github.com/youngtech-edu/records-api/pkg/middleware/cors"
	reqidmiddleware "github.com/youngtech-edu/records-api/pkg/middleware/requestid"
)

// @title College Records API
// @version 1.0.0
// @description Student records administration portal API
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	validate := validator.New()

	departmentRepo := repository.NewDepartmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	adminRepo := repository.NewAdminRepository(db)

	var mail mailer.Mailer = mailer.NewConsole(logr)
	if cfg.Mail.Enabled {
		mail = mailer.NewSendGrid(cfg.Mail.SendGridKey, cfg.Mail.FromName, cfg.Mail.FromEmail)
	}

	departmentSvc := service.NewDepartmentService(departmentRepo, studentRepo, validate, logr)
	studentSvc := service.NewStudentService(studentRepo, departmentRepo, validate, logr)
	authSvc := service.NewAuthService(adminRepo, mail, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
		VerifyBaseURL:     cfg.Mail.VerifyBaseURL,
	})
	exportSvc := service.NewExportService(studentRepo, departmentRepo, logr)
	metricsSvc := service.NewMetricsService()

	schema, err := graph.NewSchema(&graph.Resolver{
		Departments: departmentSvc,
		Students:    studentSvc,
	})
	if err != nil {
		logr.Sugar().Fatalw("failed to build graphql schema", "error", err)
	}

	authHandler := handler.NewAuthHandler(authSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	graphHandler := graph.NewHandler(schema, logr)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		auth.POST("/signup", authHandler.Signup)
		auth.GET("/verify", authHandler.Verify)
		auth.POST("/login", authHandler.Login)

		secured := api.Group("", middleware.JWT(authSvc))
		secured.POST("/graphql", graphHandler.Execute)
		secured.GET("/exports/students", exportHandler.Students)
		secured.GET("/exports/departments", exportHandler.Departments)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
