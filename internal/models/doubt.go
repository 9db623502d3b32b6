package models

import "time"

var (
	FirestoreCoursesCollection = "courses"
	FirestoreModulesCollection = "modules"
	FirestoreDoubtsCollection  = "doubts"
)

// DoubtReply is a reply embedded in a DoubtMessage. Replies are appended, never edited.
type DoubtReply struct {
	ID         string     `json:"id" mapstructure:"id"`
	Text       string     `json:"text" mapstructure:"text"`
	SenderID   string     `json:"senderId" mapstructure:"senderId"`
	SenderName string     `json:"senderName" mapstructure:"senderName"`
	Timestamp  *time.Time `json:"timestamp" mapstructure:"timestamp"`
}

// DoubtMessage is a question thread scoped to a (course, module) pair. A nil Timestamp means
// the server timestamp has not been resolved yet.
type DoubtMessage struct {
	ID         string        `json:"id" mapstructure:"id"`
	Text       string        `json:"text" mapstructure:"text"`
	SenderID   string        `json:"senderId" mapstructure:"senderId"`
	SenderName string        `json:"senderName" mapstructure:"senderName"`
	Timestamp  *time.Time    `json:"timestamp" mapstructure:"timestamp"`
	Pinned     bool          `json:"pinned" mapstructure:"pinned"`
	Replies    []*DoubtReply `json:"replies" mapstructure:"replies"`
	ModuleID   string        `json:"moduleId" mapstructure:"moduleId"`
	CourseID   string        `json:"courseId" mapstructure:"courseId"`
}

// CreateDoubtRequest is the parameter struct for the AddDoubt function.
type CreateDoubtRequest struct {
	CourseID   string `json:"courseId,omitempty" validate:"required"`
	ModuleID   string `json:"moduleId,omitempty" validate:"required"`
	Text       string `json:"text" validate:"notblank"`
	SenderID   string `json:"senderId,omitempty" validate:"required"`
	SenderName string `json:"senderName,omitempty"`
}

// CreateReplyRequest is the parameter struct for the AddReply function.
type CreateReplyRequest struct {
	CourseID   string `json:"courseId,omitempty" validate:"required"`
	ModuleID   string `json:"moduleId,omitempty" validate:"required"`
	DoubtID    string `json:"doubtId,omitempty" validate:"required"`
	Text       string `json:"text" validate:"notblank"`
	SenderID   string `json:"senderId,omitempty" validate:"required"`
	SenderName string `json:"senderName,omitempty"`
}

// TogglePinRequest is the parameter struct for the TogglePin function. CurrentlyPinned is the
// caller's view of the doubt's pinned state.
type TogglePinRequest struct {
	CourseID        string `json:"courseId,omitempty" validate:"required"`
	ModuleID        string `json:"moduleId,omitempty" validate:"required"`
	DoubtID         string `json:"doubtId,omitempty" validate:"required"`
	CurrentlyPinned bool   `json:"pinned"`
	RequesterID     string `json:"requesterId,omitempty" validate:"required"`
}
