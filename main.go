// @title Riskflow API
// @version 1.0
// @description Supply chain resilience analysis over daily equity prices.
// @BasePath /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/epeers/riskflow/config"
	_ "github.com/epeers/riskflow/docs"
	"github.com/epeers/riskflow/internal/app"
	"github.com/epeers/riskflow/internal/handlers"
	"github.com/epeers/riskflow/internal/middleware"
	"github.com/epeers/riskflow/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	cfg.ConfigureLogging()

	ctx := context.Background()

	a, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}
	defer a.Close()

	analysisHandler := handlers.NewAnalysisHandler(a.Analysis)

	router := newRouter(analysisHandler)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Infof("Starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Analyses can take a while on a cold cache
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	hits, misses, size := a.Cache.Stats()
	log.WithFields(log.Fields{"hits": hits, "misses": misses, "entries": size}).Info("Server exited")
}

func newRouter(analysisHandler *handlers.AnalysisHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok"})
	})

	router.POST("/analysis", analysisHandler.Analyze)
	router.POST("/analysis/export/:table", analysisHandler.Export)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
