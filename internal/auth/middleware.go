package auth

import (
	"context"
	"net/http"

	"learnhub/internal/qerrors"
)

type contextKey string

const sessionContextKey contextKey = "currentSession"

// RequireAuth is a middleware that rejects requests without a valid session cookie, or whose
// student has not passed the allowlist step. The Session is added to the request context, and
// can be accessed via GetSessionFromRequest.
func RequireAuth(svc *Service, cookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenCookie, err := r.Cookie(cookieName)
			if err != nil {
				// Missing session cookie.
				qerrors.Render(w, r, qerrors.NotAuthenticated)
				return
			}

			session, err := svc.SessionFromCookie(r.Context(), tokenCookie.Value)
			if err != nil {
				qerrors.Render(w, r, err)
				return
			}
			if !session.IsAuthenticated() {
				qerrors.Render(w, r, qerrors.NotAuthenticated)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), session)))
		})
	}
}

// RequireAdmin rejects requests whose student may not edit courses. Must run after RequireAuth.
func RequireAdmin(roles *Roles) func(handler http.Handler) http.Handler {
	return requireRole(qerrors.AdminOnlyError, roles.IsAdmin)
}

// RequireChat rejects requests whose student may not post doubts. Must run after RequireAuth.
func RequireChat(roles *Roles) func(handler http.Handler) http.Handler {
	return requireRole(qerrors.ChatNotAllowedError, roles.CanChat)
}

func requireRole(denied error, allowed func(studentID string) bool) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := GetSessionFromRequest(r)
			if err != nil {
				qerrors.Render(w, r, err)
				return
			}
			if !allowed(session.StudentID()) {
				qerrors.Render(w, r, denied)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithSession returns a copy of ctx carrying session.
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// GetSessionFromRequest returns the Session in the request context. Only works with routes that
// use the RequireAuth middleware.
func GetSessionFromRequest(r *http.Request) (*Session, error) {
	session, ok := r.Context().Value(sessionContextKey).(*Session)
	if !ok || session == nil {
		return nil, qerrors.NotAuthenticated
	}
	return session, nil
}
