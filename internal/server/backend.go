package server

import (
	"learnhub/internal/auth"
	"learnhub/internal/catalog"
	"learnhub/internal/config"
	"learnhub/internal/doubts"
	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/progress"
	"learnhub/internal/repository"
	rtr "learnhub/internal/router"

	"go.uber.org/zap"
)

// NewMemoryBackend returns an in-memory store holding cfg.SeedAllowedStudents, and a provider
// that accepts any ID token as the UID of the student signing in.
func NewMemoryBackend(cfg *config.ServerConfig) (*repository.MemoryRepository, *auth.MemoryProvider) {
	repo := repository.NewMemoryRepository()
	for _, seed := range cfg.SeedAllowedStudents {
		if seed.StudentID == "" {
			continue
		}
		repo.AddAllowedStudent(&models.AllowedStudent{
			StudentID: seed.StudentID,
			Name:      seed.Name,
			Email:     seed.Email,
		})
	}

	provider := auth.NewMemoryProvider()
	provider.TokenAsUID = true
	return repo, provider
}

// NewRouter builds the services over repo and provider.
func NewRouter(cfg *config.ServerConfig, repo repository.Repository, provider auth.Provider, logger *zap.Logger) *rtr.Router {
	authService := auth.NewService(provider, repo, cfg, logger.Named("auth"))
	courses := catalog.NewCatalog(catalog.SeedCourses())

	return &rtr.Router{
		Config:   cfg,
		Auth:     authService,
		Doubts:   doubts.NewService(repo, logger.Named("doubts")),
		Catalog:  courses,
		Editor:   catalog.NewEditor(courses, authService.Roles(), logger.Named("catalog")),
		Progress: progress.NewService(repo, logger.Named("progress")),
		Profiles: repo,
		Metrics:  middleware.NewMetrics(),
		Logger:   logger,
	}
}
