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
	"github.com/jmoiron/sqlx"

	"github.com/edubridge/edubridge-api/internal/handler"
	"github.com/edubridge/edubridge-api/internal/repository"
	"github.com/edubridge/edubridge-api/pkg/config"
	"github.com/edubridge/edubridge-api/pkg/database"
	"github.com/edubridge/edubridge-api/pkg/logger"
	corsmiddleware "github.com/edubridge/edubridge-api/pkg/middleware/cors"
	reqidmiddleware "github.com/edubridge/edubridge-api/pkg/middleware/requestid"
)

const schemaDDL = `CREATE TABLE IF NOT EXISTS school_documents (
	key        TEXT PRIMARY KEY,
	document   JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func ensureSchema(db *sqlx.DB) error {
	_, err := db.Exec(schemaDDL)
	return err
}

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	if err := ensureSchema(db); err != nil {
		logr.Sugar().Fatalw("failed to prepare schema", "error", err)
	}

	blobHandler := handler.NewBlobHandler(repository.NewBlobRepository(db), logr)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/api/school-data", blobHandler.Get)
	r.POST("/api/school-data", blobHandler.Save)

	addr := fmt.Sprintf(":%d", cfg.Blob.ServerPort)
	srv := &http.Server{Addr: addr, Handler: r}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("blob server starting", "addr", addr, "env", cfg.Env)
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
}
