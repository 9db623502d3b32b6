package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	"go.uber.org/zap"
)

// State is the lifecycle state of a Session.
type State int

const (
	// StateUnknown is the state before the first auth event is delivered.
	StateUnknown State = iota
	// StateAnonymous means nobody is signed in.
	StateAnonymous
	// StatePending means the provider identity is known but no student ID has been resolved.
	StatePending
	// StateResolved means the student is fully authenticated.
	StateResolved
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StatePending:
		return "pending"
	case StateResolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// Session is the signed-in state of one client. It is safe for concurrent use.
type Session struct {
	svc *Service

	mu       sync.RWMutex
	state    State
	identity *models.AuthIdentity
	profile  *models.StudentProfile
}

// HandleAuthState applies an auth event from the provider. A nil identity signs the session out
// locally; otherwise the stored profile for the identity, if any, is loaded.
func (s *Session) HandleAuthState(ctx context.Context, identity *models.AuthIdentity) error {
	if identity == nil {
		s.reset()
		return nil
	}

	profile, err := s.svc.store.GetStudentProfile(ctx, identity.UID)
	if err != nil && !errors.Is(err, qerrors.NotFoundError) {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c := *identity
	s.identity = &c
	if profile != nil && profile.StudentID != "" {
		s.profile = profile
		s.state = StateResolved
	} else {
		s.profile = nil
		s.state = StatePending
	}
	return nil
}

// Login completes the allowlist step for the signed-in identity.
func (s *Session) Login(ctx context.Context, studentID string) (*models.StudentProfile, error) {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()
	if identity == nil {
		return nil, qerrors.NotAuthenticated
	}

	profile, err := s.svc.Login(ctx, identity, studentID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = profile
	s.state = StateResolved
	return profile, nil
}

// Logout ends the session with the provider and clears local state. If the provider fails, the
// local state is still cleared when the service is configured to do so, and the error returned.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.RLock()
	identity := s.identity
	s.mu.RUnlock()

	if identity != nil {
		if err := s.svc.provider.SignOut(ctx, identity.UID); err != nil {
			s.svc.logger.Warn("provider sign-out failed", zap.String("uid", identity.UID), zap.Error(err))
			if s.svc.clearOnSignOutFailure {
				s.reset()
			}
			return fmt.Errorf("error signing out: %w", err)
		}
	}

	s.reset()
	return nil
}

// IsAuthenticated reports whether both the provider identity and the student ID are present.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity != nil && s.profile != nil && s.profile.StudentID != ""
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Identity() *models.AuthIdentity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

func (s *Session) Profile() *models.StudentProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

// StudentID returns the resolved student ID, or "" if the session is not authenticated.
func (s *Session) StudentID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ""
	}
	return s.profile.StudentID
}

func (s *Session) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = nil
	s.profile = nil
	s.state = StateAnonymous
}
