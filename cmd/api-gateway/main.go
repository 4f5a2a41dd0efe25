package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/edubridge/edubridge-api/api/swagger"
	"github.com/edubridge/edubridge-api/internal/gateway"
	"github.com/edubridge/edubridge-api/internal/handler"
	"github.com/edubridge/edubridge-api/internal/middleware"
	"github.com/edubridge/edubridge-api/internal/models"
	"github.com/edubridge/edubridge-api/internal/repository"
	"github.com/edubridge/edubridge-api/internal/service"
	"github.com/edubridge/edubridge-api/internal/store"
	"github.com/edubridge/edubridge-api/pkg/cache"
	"github.com/edubridge/edubridge-api/pkg/config"
	"github.com/edubridge/edubridge-api/pkg/export"
	"github.com/edubridge/edubridge-api/pkg/logger"
	corsmiddleware "github.com/edubridge/edubridge-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edubridge/edubridge-api/pkg/middleware/requestid"
)

// @title EduBridge API
// @version 0.1.0
// @description Role-based school management gateway
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

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	var snapshotCache *repository.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, running without local cache", "error", err)
	} else {
		snapshotCache = repository.NewCacheRepository(redisClient)
	}

	gw := gateway.New(cfg.Blob, snapshotCache, logr)

	loadCtx, cancelLoad := context.WithTimeout(context.Background(), 2*cfg.Blob.Timeout)
	initial := gw.Load(loadCtx)
	cancelLoad()

	metricsSvc := service.NewMetricsService()
	gw.OnPushFailure(metricsSvc.RecordPersistFailure)
	schoolSvc := service.NewSchoolService(initial, gw, metricsSvc, logr)
	authSvc := service.NewAuthService(schoolSvc, cfg.JWT, cfg.Auth, logr)
	requestSvc := service.NewRequestService(schoolSvc, logr)
	noticeSvc := service.NewNoticeService(store.SeedNotices(), nil, logr)
	reportSvc := service.NewReportService(schoolSvc, export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc, metricsSvc)
	schoolHandler := handler.NewSchoolHandler(schoolSvc)
	classHandler := handler.NewClassHandler(schoolSvc)
	teacherHandler := handler.NewTeacherHandler(schoolSvc)
	studentHandler := handler.NewStudentHandler(schoolSvc, authSvc, reportSvc)
	requestHandler := handler.NewRequestHandler(requestSvc)
	noticeHandler := handler.NewNoticeHandler(noticeSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	session := api.Group("")
	session.Use(middleware.Session(authSvc, schoolSvc))
	{
		session.POST("/auth/logout", authHandler.Logout)
		session.POST("/auth/change-password", authHandler.ChangePassword)
		session.GET("/me", authHandler.Me)

		session.GET("/school", schoolHandler.Get)

		session.GET("/classes", classHandler.List)
		session.GET("/classes/:name", classHandler.Get)
		session.POST("/classes", classHandler.Create)
		session.DELETE("/classes/:name", classHandler.Delete)
		session.PUT("/classes/:name/academic-head", classHandler.SetAcademicHead)

		session.POST("/classes/:name/teachers", teacherHandler.Create)
		session.DELETE("/classes/:name/teachers/:id", teacherHandler.Delete)
		session.PUT("/teachers/:id", teacherHandler.Update)
		session.PUT("/teachers/:id/subjects", teacherHandler.UpdateSubjects)
		session.PUT("/teachers/:id/classes", teacherHandler.UpdateClasses)

		session.POST("/classes/:name/students", studentHandler.Create)
		session.DELETE("/classes/:name/students/:id", studentHandler.Delete)
		session.GET("/students", studentHandler.List)
		session.GET("/students/:id", studentHandler.Get)
		session.PUT("/students/:id/scores", studentHandler.UpdateScore)
		session.PUT("/students/:id/practice-scores", studentHandler.UpdatePracticeScore)
		session.PUT("/students/:id/attendance", studentHandler.UpdateAttendance)
		session.POST("/students/:id/attendance/self-mark", studentHandler.SelfMarkAttendance)
		session.PUT("/students/:id/skills", studentHandler.UpdateSkills)
		session.PUT("/students/:id/profile-pic", studentHandler.UpdateProfilePic)
		session.POST("/students/:id/fees/pay", studentHandler.PayFees)
		session.POST("/students/:id/documents", studentHandler.AddDocument)
		session.DELETE("/students/:id/documents/:docId", studentHandler.DeleteDocument)
		session.GET("/students/:id/report-card", studentHandler.ReportCard)

		session.GET("/classes/:name/econtent", classHandler.ListEContent)
		session.POST("/classes/:name/econtent", classHandler.AddEContent)
		session.DELETE("/classes/:name/econtent/:id", classHandler.DeleteEContent)

		session.POST("/requests", requestHandler.Submit)
		session.GET("/requests", requestHandler.List)
		session.GET("/requests/pending-count",
			middleware.RequireRoles(models.RoleAdmin), requestHandler.PendingCount)
		session.POST("/requests/:id/approve", requestHandler.Approve)
		session.POST("/requests/:id/deny", requestHandler.Deny)

		session.GET("/notices", noticeHandler.List)
		session.POST("/notices", noticeHandler.Add)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
	// Flush in-flight snapshot pushes before exiting.
	gw.Wait()
}
