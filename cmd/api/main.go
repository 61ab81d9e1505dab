package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getyourdepa/depa-cms/internal/app"
	"github.com/getyourdepa/depa-cms/internal/config"
	"github.com/getyourdepa/depa-cms/internal/handler"
	"github.com/getyourdepa/depa-cms/internal/middleware"
	"github.com/getyourdepa/depa-cms/internal/routes"
	pkglogger "github.com/getyourdepa/depa-cms/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// @title           Depa CMS API
// @version         1.0
// @description     Admin backend for the getyourdepa.com real-estate site
//
// @host            localhost:8080
// @BasePath        /api
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Firebase ID token using the Bearer scheme. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv()

	configPath := config.Path()
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.InitStructured(os.Getenv("APP_ENV"))
		pkglogger.GetLogger().Fatal().Err(err).Str("path", configPath).Msg("Failed to load config")
	}

	pkglogger.InitWithFile(cfg.Server.Env, pkglogger.FileConfig{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	pkglogger.SetLevel(cfg.Log.Level)
	pkglogger.GetLogger().Info().
		Strs("env_files", dotenvFiles).
		Str("config", configPath).
		Msg("Configuration loaded")
	config.LogResolved(cfg)

	if err := handler.RegisterValidators(); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("Failed to register validators")
	}

	ctx := context.Background()
	deps, err := app.New(ctx, cfg)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("Failed to initialize backends")
	}
	defer deps.Close()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	// CORS
	allowOrigins := splitAndTrim(cfg.CORS.AllowOrigins, ",")
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:4321"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           12 * time.Hour,
	}))

	router.Use(middleware.I18n(deps.Bundle))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	routes.Setup(router, deps.Handlers(), deps.Gate(), deps.Limits())

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	go func() {
		pkglogger.GetLogger().Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	pkglogger.GetLogger().Info().Str("signal", sig.String()).Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("Graceful shutdown failed")
	}
}

// splitAndTrim splits s by sep, dropping blank parts
func splitAndTrim(s, sep string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, sep) {
		if p := strings.TrimSpace(part); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
