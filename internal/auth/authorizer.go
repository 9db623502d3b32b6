package auth

import (
	"context"
	"errors"
	"strings"

	"learnhub/internal/models"
	"learnhub/internal/qerrors"
)

// AllowlistReader looks up pre-provisioned student records.
type AllowlistReader interface {
	GetAllowedStudent(ctx context.Context, studentID string) (*models.AllowedStudent, error)
}

// Grant is the result of a successful allowlist check.
type Grant struct {
	StudentID string
	// Name and Email are the stored allowlist values, empty for a bypass grant.
	Name  string
	Email string
	// Bypass is set when the student ID was allowed without an allowlist record.
	Bypass bool
}

// Authorizer validates claimed student IDs against the allowlist.
type Authorizer struct {
	allowlist AllowlistReader
	bypass    map[string]bool
}

func NewAuthorizer(allowlist AllowlistReader, bypassIDs []string) *Authorizer {
	bypass := make(map[string]bool, len(bypassIDs))
	for _, id := range bypassIDs {
		bypass[id] = true
	}
	return &Authorizer{allowlist: allowlist, bypass: bypass}
}

// Authorize checks studentID for identity. It only reads; a rejected ID fails with
// qerrors.AuthorizationError.
func (a *Authorizer) Authorize(ctx context.Context, studentID string, identity *models.AuthIdentity) (*Grant, error) {
	if identity == nil || identity.UID == "" {
		return nil, qerrors.NotAuthenticated
	}
	studentID = strings.TrimSpace(studentID)
	if studentID == "" {
		return nil, qerrors.Validation("studentId is required")
	}
	if a.allowlist == nil {
		return nil, qerrors.Unavailable(errors.New("allowlist store is not initialized"))
	}

	record, err := a.allowlist.GetAllowedStudent(ctx, studentID)
	switch {
	case err == nil:
		return &Grant{StudentID: studentID, Name: record.Name, Email: record.Email}, nil
	case errors.Is(err, qerrors.NotFoundError):
		if a.bypass[studentID] {
			return &Grant{StudentID: studentID, Bypass: true}, nil
		}
		return nil, qerrors.AuthorizationError
	default:
		return nil, err
	}
}
