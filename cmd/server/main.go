package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"learnhub/internal/auth"
	"learnhub/internal/config"
	"learnhub/internal/firebase"
	"learnhub/internal/logger"
	"learnhub/internal/repository"
	"learnhub/internal/server"

	"github.com/golang/glog"
	"go.uber.org/zap"
)

func main() {
	// glog registers its flags on the default set.
	flag.Parse()
	defer glog.Flush()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ error loading configuration: %v", err)
	}

	zl := logger.New(cfg)
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo repository.Repository
	var provider auth.Provider
	switch cfg.Backend {
	case "memory":
		zl.Warn("using in-memory backend; data is lost on restart and any ID token signs in as its own UID",
			zap.Int("seededStudents", len(cfg.SeedAllowedStudents)))
		repo, provider = server.NewMemoryBackend(cfg)
	default:
		app, err := firebase.NewApp(ctx, cfg)
		if err != nil {
			zl.Fatal("firebase init failed", zap.Error(err))
		}
		defer app.Close()

		fr, err := repository.NewFirebaseRepository(ctx, app.Firestore)
		if err != nil {
			zl.Fatal("repository init failed", zap.Error(err))
		}
		repo = fr
		provider = auth.NewFirebaseProvider(app.Auth)
	}

	rt := server.NewRouter(cfg, repo, provider, zl)
	if err := server.Start(ctx, cfg, server.Handler(cfg, rt), zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
