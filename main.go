package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"expense-tracker/api/auth"
	"expense-tracker/api/config"
	"expense-tracker/api/handlers"
	"expense-tracker/api/logger"
	"expense-tracker/api/middleware"
	"expense-tracker/api/mongodb"
	"expense-tracker/api/web"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if err := logger.Init(cfg.Development(), cfg.LogLevel); err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Failure to reach the store at startup is fatal.
	connectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	client, err := mongodb.Connect(connectCtx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		logger.Get().Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	defer client.Close(context.Background())

	if err := client.EnsureIndexes(context.Background()); err != nil {
		logger.Get().Fatal("failed to create indexes", zap.Error(err))
	}

	if !cfg.Development() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	issuer := auth.NewTokenIssuer(cfg.JWTSecret)
	h := handlers.New(client.Users(), client.Expenses(), issuer, handlers.Options{
		SecureCookies: !cfg.Development(),
		BcryptCost:    cfg.BcryptCost,
	})

	api := router.Group("/api")
	h.MountRoutes(api, middleware.RequireAuth(issuer))

	mountClient(router)

	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Get().Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Get().Error("server shutdown error", zap.Error(err))
		}
	}()

	logger.Get().Info("server starting", zap.String("port", cfg.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Get().Fatal("server error", zap.Error(err))
	}
	logger.Get().Info("server stopped")
}

// mountClient serves the embedded single-page client for everything
// outside /api.
func mountClient(router *gin.Engine) {
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		logger.Get().Fatal("failed to mount embedded client", zap.Error(err))
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		c.FileFromFS(c.Request.URL.Path, http.FS(staticFS))
	})
}
