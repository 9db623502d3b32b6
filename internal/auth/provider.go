package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"

	firebaseAuth "firebase.google.com/go/auth"
	"github.com/google/uuid"
)

// Provider is the external identity provider.
type Provider interface {
	// VerifyIDToken checks a client ID token and returns the identity it was issued for.
	VerifyIDToken(ctx context.Context, idToken string) (*models.AuthIdentity, error)
	// CreateSessionCookie exchanges a client ID token for a session cookie value.
	CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error)
	// VerifySessionCookie returns the identity for a session cookie, failing if it was revoked.
	VerifySessionCookie(ctx context.Context, cookie string) (*models.AuthIdentity, error)
	// SignOut ends every session of uid.
	SignOut(ctx context.Context, uid string) error
}

// FirebaseProvider implements Provider with Firebase Authentication.
type FirebaseProvider struct {
	client *firebaseAuth.Client
}

func NewFirebaseProvider(client *firebaseAuth.Client) *FirebaseProvider {
	return &FirebaseProvider{client: client}
}

func (p *FirebaseProvider) VerifyIDToken(ctx context.Context, idToken string) (*models.AuthIdentity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.NotAuthenticated, err)
	}
	return tokenToIdentity(token), nil
}

func (p *FirebaseProvider) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	// The session cookie will have the same claims as the ID token.
	cookie, err := p.client.SessionCookie(ctx, idToken, expiresIn)
	if err != nil {
		return "", fmt.Errorf("%w: %v", qerrors.NotAuthenticated, err)
	}
	return cookie, nil
}

func (p *FirebaseProvider) VerifySessionCookie(ctx context.Context, cookie string) (*models.AuthIdentity, error) {
	// Also detects whether the user's Firebase session was revoked, or the user deleted/disabled.
	token, err := p.client.VerifySessionCookieAndCheckRevoked(ctx, cookie)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", qerrors.NotAuthenticated, err)
	}
	return tokenToIdentity(token), nil
}

func (p *FirebaseProvider) SignOut(ctx context.Context, uid string) error {
	return p.client.RevokeRefreshTokens(ctx, uid)
}

func tokenToIdentity(token *firebaseAuth.Token) *models.AuthIdentity {
	identity := &models.AuthIdentity{UID: token.UID}
	identity.DisplayName, _ = token.Claims["name"].(string)
	identity.Email, _ = token.Claims["email"].(string)
	return identity
}

// MemoryProvider is an in-process Provider. ID tokens are registered with AddToken.
type MemoryProvider struct {
	mu       sync.Mutex
	tokens   map[string]*models.AuthIdentity
	sessions map[string]*models.AuthIdentity

	// SignOutErr, when set, is returned by SignOut and sessions are left intact.
	SignOutErr error
	// TokenAsUID makes VerifyIDToken accept any unregistered, non-blank token as the UID of a
	// new identity. Used for local development.
	TokenAsUID bool
}

func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		tokens:   make(map[string]*models.AuthIdentity),
		sessions: make(map[string]*models.AuthIdentity),
	}
}

// AddToken registers idToken as issued for identity.
func (p *MemoryProvider) AddToken(idToken string, identity *models.AuthIdentity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	c := *identity
	p.tokens[idToken] = &c
}

func (p *MemoryProvider) VerifyIDToken(ctx context.Context, idToken string) (*models.AuthIdentity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	identity, ok := p.tokens[idToken]
	if !ok && p.TokenAsUID && strings.TrimSpace(idToken) != "" {
		identity, ok = &models.AuthIdentity{UID: strings.TrimSpace(idToken)}, true
	}
	if !ok {
		return nil, fmt.Errorf("%w: unknown id token", qerrors.NotAuthenticated)
	}
	c := *identity
	return &c, nil
}

func (p *MemoryProvider) CreateSessionCookie(ctx context.Context, idToken string, expiresIn time.Duration) (string, error) {
	identity, err := p.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	cookie := uuid.NewString()
	p.sessions[cookie] = identity
	return cookie, nil
}

func (p *MemoryProvider) VerifySessionCookie(ctx context.Context, cookie string) (*models.AuthIdentity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	identity, ok := p.sessions[cookie]
	if !ok {
		return nil, fmt.Errorf("%w: unknown or revoked session", qerrors.NotAuthenticated)
	}
	c := *identity
	return &c, nil
}

func (p *MemoryProvider) SignOut(ctx context.Context, uid string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.SignOutErr != nil {
		return p.SignOutErr
	}
	for cookie, identity := range p.sessions {
		if identity.UID == uid {
			delete(p.sessions, cookie)
		}
	}
	return nil
}
