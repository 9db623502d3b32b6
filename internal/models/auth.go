package models

import "time"

const (
	FirestoreAllowedStudentsCollection = "allowed_students"
	FirestoreStudentsCollection        = "students"
)

// AuthIdentity is the identity issued by the auth provider on sign-in. The application never
// mutates it.
type AuthIdentity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName,omitempty"`
	Email       string `json:"email,omitempty"`
}

// AllowedStudent is a pre-provisioned allowed_students record, keyed by student ID.
type AllowedStudent struct {
	StudentID string `json:"studentId" mapstructure:"-"`
	Name      string `json:"name,omitempty" mapstructure:"name"`
	Email     string `json:"email,omitempty" mapstructure:"email"`
}

// QuizAttemptSummary is the per-attempt entry kept on a StudentProfile.
type QuizAttemptSummary struct {
	QuizID      string     `json:"quizId" mapstructure:"quizId"`
	Score       float64    `json:"score" mapstructure:"score"`
	AttemptedAt *time.Time `json:"attemptedAt" mapstructure:"attemptedAt"`
}

// StudentProfile is stored in the students collection, keyed by the auth provider UID.
type StudentProfile struct {
	UID              string                `json:"uid" mapstructure:"uid"`
	StudentID        string                `json:"studentId" mapstructure:"studentId"`
	Name             string                `json:"name" mapstructure:"name"`
	Email            string                `json:"email" mapstructure:"email"`
	CoursesCompleted []string              `json:"coursesCompleted" mapstructure:"coursesCompleted"`
	QuizzesAttempted []*QuizAttemptSummary `json:"quizzesAttempted" mapstructure:"quizzesAttempted"`
	LastLogin        *time.Time            `json:"lastLogin" mapstructure:"lastLogin"`
	CreatedAt        *time.Time            `json:"createdAt" mapstructure:"createdAt"`
}

// CreateSessionRequest is the body of POST /v1/users/session.
type CreateSessionRequest struct {
	Token     string `json:"token" validate:"required"`
	StudentID string `json:"studentId" validate:"required,notblank"`
}
