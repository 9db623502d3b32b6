package models

import "time"

const (
	FirestoreQuizAttemptsCollection = "student_quiz_attempts"
	FirestoreProgressCollection     = "progress"
)

type QuizQuestion struct {
	ID              string `json:"id" validate:"required"`
	CorrectOptionID string `json:"correctOptionId"`
}

type UserAnswer struct {
	QuestionID       string `json:"questionId" mapstructure:"questionId"`
	SelectedOptionID string `json:"selectedOptionId" mapstructure:"selectedOptionId"`
}

// QuizAttempt is a document in the student_quiz_attempts collection.
type QuizAttempt struct {
	ID              string        `json:"id" mapstructure:"-"`
	QuizID          string        `json:"quizId" mapstructure:"quizId"`
	QuizTitle       string        `json:"quizTitle" mapstructure:"quizTitle"`
	UserID          string        `json:"userId" mapstructure:"userId"`
	Answers         []*UserAnswer `json:"answers" mapstructure:"answers"`
	Score           float64       `json:"score" mapstructure:"score"`
	TotalQuestions  int           `json:"totalQuestions" mapstructure:"totalQuestions"`
	CompletedAt     *time.Time    `json:"completedAt" mapstructure:"completedAt"`
	DurationSeconds int           `json:"durationSeconds,omitempty" mapstructure:"durationSeconds"`
}

// SubmitQuizAttemptRequest is the parameter struct for the SubmitQuizAttempt function.
type SubmitQuizAttemptRequest struct {
	QuizID          string          `json:"quizId" validate:"required"`
	QuizTitle       string          `json:"quizTitle"`
	UserID          string          `json:"userId,omitempty" validate:"required"`
	Answers         []*UserAnswer   `json:"answers"`
	Questions       []*QuizQuestion `json:"questions" validate:"dive"`
	DurationSeconds int             `json:"durationSeconds,omitempty" validate:"gte=0"`
}

// ModuleProgress is stored at students/{uid}/progress/{moduleId}.
type ModuleProgress struct {
	ModuleID         string     `json:"moduleId" mapstructure:"-"`
	ModuleName       string     `json:"moduleName" mapstructure:"moduleName"`
	CompletionStatus string     `json:"completionStatus" mapstructure:"completionStatus"`
	Score            *float64   `json:"score" mapstructure:"score"`
	Timestamp        *time.Time `json:"timestamp" mapstructure:"timestamp"`
}

// StoreModuleProgressRequest is the parameter struct for the StoreModuleProgress function.
type StoreModuleProgressRequest struct {
	ModuleName       string   `json:"moduleName" validate:"notblank"`
	CompletionStatus string   `json:"completionStatus" validate:"required,oneof=Completed 'In Progress' 'Not Started'"`
	Score            *float64 `json:"score,omitempty"`
}

// CompletedCourseRequest is the body of POST /v1/users/me/completedCourses.
type CompletedCourseRequest struct {
	CourseID string `json:"courseID" validate:"required"`
}
