package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"learnhub/internal/config"
	rtr "learnhub/internal/router"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func Routes(rt *rtr.Router) *chi.Mux {
	router := chi.NewRouter()
	router.Use(
		middleware.Logger,    // Log API Request Calls
		middleware.Recoverer, // Turn handler panics into 500s
	)
	if rt.Metrics != nil {
		router.Use(rt.Metrics.Middleware)
		router.Method(http.MethodGet, "/metrics", rt.Metrics.Handler())
	}

	router.Route("/", func(r chi.Router) {
		r.Mount("/", rtr.HealthRoutes())
	})

	router.Route("/v1", func(r chi.Router) {
		r.Mount("/users", rt.AuthRoutes())
		r.Mount("/courses", rt.CourseRoutes())
	})

	return router
}

// Handler wraps the routes with the CORS policy from cfg.
func Handler(cfg *config.ServerConfig, rt *rtr.Router) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedHeaders:   []string{"Cookie", "Content-Type"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "PATCH"},
		ExposedHeaders:   []string{"Set-Cookie"},
		AllowCredentials: true,
	})

	return c.Handler(Routes(rt))
}

// Start serves handler on cfg.Port until ctx is done, then shuts down gracefully.
func Start(ctx context.Context, cfg *config.ServerConfig, handler http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%v", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server is listening", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
