package main

import (
	"context"
	"fmt"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/A4AMEEN/Couples-Chat-Server/internal/cache"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/config"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/domain"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/handler"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/hub"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/push"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/repository"
	"github.com/A4AMEEN/Couples-Chat-Server/internal/service"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/database"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/jwt"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/log"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/middleware"
	"github.com/A4AMEEN/Couples-Chat-Server/pkg/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		stdlog.Fatalf("Failed to load config: %v", err)
	}

	log.Init(cfg.Log)
	logger := log.L()

	if cfg.JWT.Secret == "" {
		stdlog.Fatal("JWT_SECRET must be set")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		stdlog.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.AutoMigrate(db,
		&domain.UserModel{},
		&domain.PairModel{},
		&domain.MessageModel{},
		&domain.PushSubscriptionModel{},
	); err != nil {
		stdlog.Fatalf("Failed to auto-migrate: %v", err)
	}
	logger.Info().Str("driver", cfg.Database.Driver).Msg("database migration completed")

	var statusCache cache.StatusCache
	if cfg.Redis.Enabled {
		statusCache, err = cache.NewRedisStatusCache(cfg.Redis)
		if err != nil {
			stdlog.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer statusCache.Close()
		logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
	}

	var store storage.BlobStore
	switch cfg.Storage.Driver {
	case "s3":
		store, err = storage.NewS3Store(context.Background(), cfg.Storage.S3)
	default:
		store, err = storage.NewLocalStore(cfg.Storage.Local)
	}
	if err != nil {
		stdlog.Fatalf("Failed to initialize blob storage: %v", err)
	}

	userRepo := repository.NewGormUserRepository(db)
	pairRepo := repository.NewGormPairRepository(db)
	ledger := repository.NewGormMessageLedger(db)
	subRepo := repository.NewGormPushSubscriptionRepository(db)

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Duration, cfg.JWT.Issuer)
	if err != nil {
		stdlog.Fatalf("Failed to create token manager: %v", err)
	}

	presence := hub.NewPresence()
	notifier := push.NewWebPushNotifier(subRepo, cfg.Push, nil)
	coordinator := service.NewCoordinator(
		presence,
		ledger,
		userRepo,
		pairRepo,
		notifier,
		statusCache,
		service.NewJWTVerifier(tokens),
		cfg.Timeouts,
	)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	wsHandler := handler.NewWSHandler(coordinator, cfg.WebSocket)
	httpHandler := handler.NewHandler(
		coordinator,
		userRepo,
		pairRepo,
		ledger,
		subRepo,
		presence,
		statusCache,
		store,
		tokens,
		authMiddleware,
		cfg.Push.VAPIDPublicKey,
	)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(log.GinMiddleware(logger), gin.Recovery())
	httpHandler.RegisterRoutes(r, wsHandler)

	server := &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			stdlog.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
	}

	logger.Info().Msg("server stopped")
}
