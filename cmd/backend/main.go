// Package main provides the entry point for the trim-url service.
//
//	@title			Trim URL API
//	@version		1.0.0
//	@description	URL shortener with link-in-bio pages and click analytics.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nguyen-Chi-Tam/trim-url/internal/analytics"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/auth"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/cache"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/config"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/database"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/geo"
	httpHandler "github.com/Nguyen-Chi-Tam/trim-url/internal/handler/http"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/repository/postgres"
	"github.com/Nguyen-Chi-Tam/trim-url/internal/service"
	"github.com/Nguyen-Chi-Tam/trim-url/pkg/logger"
	"github.com/Nguyen-Chi-Tam/trim-url/pkg/useragent"

	"go.uber.org/zap"

	_ "github.com/Nguyen-Chi-Tam/trim-url/docs" // swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting trim-url service", zap.String("env", cfg.Env))

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	if cfg.Database.SeedData {
		if err := database.SeedData(db, log); err != nil {
			log.Fatal("failed to seed database", zap.Error(err))
		}
	}

	if err := useragent.InitGlobalParser(cfg.URLShortener.UARegexesPath, log); err != nil {
		log.Warn("failed to initialize User-Agent parser, browser/os enrichment disabled", zap.Error(err))
	}

	geoResolver, err := geo.NewResolver(cfg.GeoIP.Path, log)
	if err != nil {
		log.Fatal("failed to open geoip database", zap.Error(err))
	}
	defer func() {
		if err := geoResolver.Close(); err != nil {
			log.Error("failed to close geoip database", zap.Error(err))
		}
	}()

	var redirectCache *cache.RedirectCache
	if cfg.Redis.Enabled {
		redirectCache, err = cache.NewRedirectCache(cfg.Redis.Address, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.TTL, log)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer func() {
			if err := redirectCache.Close(); err != nil {
				log.Error("failed to close redis connection", zap.Error(err))
			}
		}()
	}

	storage := postgres.New(db, log)
	shortener := service.NewURLShortener(storage, redirectCache, &cfg.URLShortener, log)

	processor := analytics.NewProcessor(storage, geoResolver, log, analytics.ProcessorConfig{
		WorkerCount:     cfg.Analytics.WorkerCount,
		BufferSize:      cfg.Analytics.BufferSize,
		RetryAttempts:   cfg.Analytics.RetryAttempts,
		RetryDelay:      cfg.Analytics.RetryDelay,
		ShutdownTimeout: cfg.Analytics.ShutdownTimeout,
	})
	if err := processor.Start(); err != nil {
		log.Fatal("failed to start analytics processor", zap.Error(err))
	}

	reaperCtx, reaperCancel := context.WithCancel(context.Background())
	reaper := service.NewReaper(storage, redirectCache, cfg.Reaper.Interval, log)
	go reaper.Run(reaperCtx)

	jwtService := auth.NewJWTService(&auth.JWTConfig{
		SecretKey:            []byte(cfg.Auth.JWTSecret),
		AccessTokenDuration:  cfg.Auth.AccessTokenDuration,
		RefreshTokenDuration: cfg.Auth.RefreshTokenDuration,
		Issuer:               cfg.Auth.Issuer,
	})
	passwordService := auth.NewPasswordService()
	authHandlers := auth.NewAuthHandlers(storage, jwtService, passwordService, cfg.Auth.ResetTokenDuration, log)
	authMiddleware := auth.NewMiddleware(jwtService, storage, log)

	apiServer := httpHandler.NewServer(storage, shortener, processor, authHandlers, authMiddleware, log)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down trim-url service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Analytics.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	reaperCancel()

	if err := processor.Stop(); err != nil {
		log.Error("failed to stop analytics processor", zap.Error(err))
	}
}
