package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mayankch283/Site-o-Matic/internal/deploystatus"
	"github.com/mayankch283/Site-o-Matic/internal/extract"
	httpx "github.com/mayankch283/Site-o-Matic/internal/http"
	"github.com/mayankch283/Site-o-Matic/internal/provider/vercel"
	"github.com/mayankch283/Site-o-Matic/internal/publish"
	"github.com/mayankch283/Site-o-Matic/internal/workspace"
	"github.com/mayankch283/Site-o-Matic/internal/ws"
	"github.com/mayankch283/Site-o-Matic/pkg/config"
	"github.com/mayankch283/Site-o-Matic/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New("siteomatic", logger.ParseLevel(cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workspaces, err := workspace.New(cfg.WorkspaceRoot)
	if err != nil {
		log.Error("failed to prepare workspace root", "error", err)
		os.Exit(1)
	}

	var store deploystatus.Store = deploystatus.NewMemoryStore()
	if addr := strings.TrimSpace(cfg.DeployCacheRedisAddr); addr != "" {
		redisStore, err := deploystatus.NewRedisStore(ctx, addr, cfg.DeployCacheRedisPass, cfg.DeployCacheRedisDB, cfg.DeployCacheTTL)
		if err != nil {
			log.Warn("redis deployment store unavailable, using in-memory cache", "error", err)
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	}

	if cfg.WebhookSecret == "" {
		log.Warn("webhook secret not configured, signature verification disabled")
	}

	hub := ws.NewHub()
	providerClient := vercel.New(cfg.VercelAPIURL, cfg.VercelToken, log)
	tracker := deploystatus.NewTracker(store, providerClient, hub, log, cfg.WebhookSecret, cfg.VercelProjectID)
	publisher := publish.New(workspaces, log, cfg)
	detector := extract.NewDetector()

	router := httpx.NewRouter(log, publisher, tracker, detector, hub, httpx.NewMemoryRateLimiter())
	defer router.Close()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errorCh := make(chan error, 1)
	go func() {
		log.Info("api server starting", "addr", cfg.Addr)
		errorCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
		log.Info("api server stopped")
	case err := <-errorCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}
}
