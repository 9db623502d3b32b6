package router

import (
	"context"
	"encoding/json"
	"net/http"

	"learnhub/internal/auth"
	"learnhub/internal/catalog"
	"learnhub/internal/config"
	"learnhub/internal/doubts"
	"learnhub/internal/middleware"
	"learnhub/internal/models"
	"learnhub/internal/progress"
	"learnhub/internal/qerrors"

	"go.uber.org/zap"
)

// ProfileReader reads stored student data for the dashboard endpoints.
type ProfileReader interface {
	GetStudentProfile(ctx context.Context, uid string) (*models.StudentProfile, error)
	ListModuleProgress(ctx context.Context, uid string) ([]*models.ModuleProgress, error)
}

// Router holds the services the HTTP handlers call into.
type Router struct {
	Config   *config.ServerConfig
	Auth     *auth.Service
	Doubts   *doubts.Service
	Catalog  *catalog.Catalog
	Editor   *catalog.Editor
	Progress *progress.Service
	Profiles ProfileReader
	Metrics  *middleware.Metrics
	Logger   *zap.Logger
}

func (rt *Router) requireAuth() func(http.Handler) http.Handler {
	return auth.RequireAuth(rt.Auth, rt.Config.SessionCookieName)
}

// Helpers

// writeError renders err for the client. Unexpected errors are logged.
func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if qerrors.StatusCode(err) >= http.StatusInternalServerError {
		rt.Logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
	}
	qerrors.Render(w, r, err)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return qerrors.Validation("malformed request body: %v", err)
	}
	return nil
}

func sessionProfile(r *http.Request) (*models.StudentProfile, error) {
	session, err := auth.GetSessionFromRequest(r)
	if err != nil {
		return nil, err
	}
	profile := session.Profile()
	if profile == nil {
		return nil, qerrors.NotAuthenticated
	}
	return profile, nil
}
