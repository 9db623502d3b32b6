package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/internal/config"
	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"go.uber.org/zap"
)

// ProfileStore persists student profiles.
type ProfileStore interface {
	AllowlistReader
	GetStudentProfile(ctx context.Context, uid string) (*models.StudentProfile, error)
	SaveStudentProfile(ctx context.Context, p *models.StudentProfile) (*models.StudentProfile, error)
}

// Service logs students in and creates per-request sessions.
type Service struct {
	provider   Provider
	store      ProfileStore
	authorizer *Authorizer
	roles      *Roles
	logger     *zap.Logger

	clearOnSignOutFailure bool
}

func NewService(provider Provider, store ProfileStore, cfg *config.ServerConfig, logger *zap.Logger) *Service {
	return &Service{
		provider:              provider,
		store:                 store,
		authorizer:            NewAuthorizer(store, cfg.BypassStudentIDs),
		roles:                 NewRoles(cfg),
		logger:                logger,
		clearOnSignOutFailure: cfg.ClearSessionOnSignOutFailure,
	}
}

func (s *Service) Roles() *Roles {
	return s.roles
}

// NewSession returns a session in the unknown state.
func (s *Service) NewSession() *Session {
	return &Session{svc: s, state: StateUnknown}
}

// SessionFromCookie verifies a session cookie and returns the session it belongs to. A valid
// cookie whose student has not completed the allowlist step yields a pending session.
func (s *Service) SessionFromCookie(ctx context.Context, cookie string) (*Session, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	identity, err := s.provider.VerifySessionCookie(ctx, cookie)
	if err != nil {
		return nil, err
	}

	session := s.NewSession()
	if err := session.HandleAuthState(ctx, identity); err != nil {
		return nil, err
	}
	return session, nil
}

// StartSession verifies idToken, logs the student in as studentID and mints a session cookie.
func (s *Service) StartSession(ctx context.Context, req *models.CreateSessionRequest, expiresIn time.Duration) (string, *models.StudentProfile, error) {
	if err := models.Validate(req); err != nil {
		return "", nil, err
	}
	if err := s.ready(); err != nil {
		return "", nil, err
	}

	identity, err := s.provider.VerifyIDToken(ctx, req.Token)
	if err != nil {
		return "", nil, err
	}

	session := s.NewSession()
	if err := session.HandleAuthState(ctx, identity); err != nil {
		return "", nil, err
	}
	profile, err := session.Login(ctx, req.StudentID)
	if err != nil {
		return "", nil, err
	}

	cookie, err := s.provider.CreateSessionCookie(ctx, req.Token, expiresIn)
	if err != nil {
		return "", nil, err
	}
	return cookie, profile, nil
}

// Login authorizes studentID for identity and upserts the profile. Existing completed courses,
// quiz attempts and creation time are kept; lastLogin is refreshed to the server time.
func (s *Service) Login(ctx context.Context, identity *models.AuthIdentity, studentID string) (*models.StudentProfile, error) {
	if err := s.ready(); err != nil {
		return nil, err
	}

	grant, err := s.authorizer.Authorize(ctx, studentID, identity)
	if err != nil {
		s.logger.Info("login rejected", zap.String("uid", identityUID(identity)), zap.String("studentId", studentID), zap.Error(err))
		return nil, err
	}

	existing, err := s.store.GetStudentProfile(ctx, identity.UID)
	if err != nil && !errors.Is(err, qerrors.NotFoundError) {
		return nil, err
	}

	profile := &models.StudentProfile{
		UID:              identity.UID,
		StudentID:        grant.StudentID,
		Name:             firstNonEmpty(grant.Name, identity.DisplayName, fmt.Sprintf("Student %s", grant.StudentID)),
		Email:            firstNonEmpty(grant.Email, identity.Email, fmt.Sprintf("%s@example.com", grant.StudentID)),
		CoursesCompleted: []string{},
		QuizzesAttempted: []*models.QuizAttemptSummary{},
	}
	if existing != nil {
		if existing.StudentID != "" && existing.StudentID != grant.StudentID {
			s.logger.Warn("student id changed for uid",
				zap.String("uid", identity.UID),
				zap.String("from", existing.StudentID),
				zap.String("to", grant.StudentID))
		}
		if existing.CoursesCompleted != nil {
			profile.CoursesCompleted = existing.CoursesCompleted
		}
		if existing.QuizzesAttempted != nil {
			profile.QuizzesAttempted = existing.QuizzesAttempted
		}
		profile.CreatedAt = existing.CreatedAt
	}

	saved, err := s.store.SaveStudentProfile(ctx, profile)
	if err != nil {
		return nil, err
	}

	s.logger.Info("student logged in",
		zap.String("uid", saved.UID),
		zap.String("studentId", saved.StudentID),
		zap.Bool("bypass", grant.Bypass))
	return saved, nil
}

func (s *Service) ready() error {
	if s == nil || s.provider == nil || s.store == nil {
		return qerrors.Unavailable(errors.New("auth or document store is not initialized"))
	}
	return nil
}

// Helpers

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func identityUID(identity *models.AuthIdentity) string {
	if identity == nil {
		return ""
	}
	return identity.UID
}
