package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/config"
	"storefront/internal/cart"
	"storefront/internal/hashing"
	"storefront/internal/reports"
	"storefront/internal/repository"
	"storefront/internal/router"
	"storefront/internal/sender"
	"storefront/internal/service"
	"storefront/internal/token"
	"storefront/pkg/database"
	"storefront/pkg/logger"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	store, err := cart.NewRedisStore(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 0, log)
	if err != nil {
		log.Fatal("failed to create redis client", zap.Error(err))
	}
	defer store.Close()

	hasher := hashing.NewBcrypt(0)
	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)

	var resetSender service.ResetCodeSender
	if cfg.SMTP.Enabled {
		resetSender = sender.NewEmailSender(cfg.SMTP)
		log.Info("Email sender enabled")
	} else {
		log.Info("Email sender disabled, reset codes will be logged")
	}

	authSvc := service.NewAuthService(
		repos,
		hasher, tokens, resetSender,
		cfg.JWT.AccessExp, cfg.JWT.RefreshExp,
		log,
	)

	cartSvc := cart.NewService(store, log)
	reportsSvc := reports.NewService(repos, log)

	r := router.Router(router.Deps{
		Repo:    repos,
		Auth:    authSvc,
		Tokens:  tokens,
		Cart:    cartSvc,
		Reports: reportsSvc,
		Log:     log,
	})

	srv := &http.Server{
		Addr:    cfg.Port,
		Handler: r,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
