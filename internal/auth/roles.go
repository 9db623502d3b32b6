package auth

import "learnhub/internal/config"

// Roles decides what a student ID may do beyond reading.
type Roles struct {
	admins map[string]bool
	chat   map[string]bool
}

func NewRoles(cfg *config.ServerConfig) *Roles {
	r := &Roles{
		admins: make(map[string]bool, len(cfg.AdminStudentIDs)),
		chat:   make(map[string]bool, len(cfg.ChatStudentIDs)),
	}
	for _, id := range cfg.AdminStudentIDs {
		r.admins[id] = true
	}
	for _, id := range cfg.ChatStudentIDs {
		r.chat[id] = true
	}
	return r
}

// IsAdmin reports whether studentID may use the course editor.
func (r *Roles) IsAdmin(studentID string) bool {
	return studentID != "" && r.admins[studentID]
}

// CanChat reports whether studentID may post doubts, replies and pins. With no chat list
// configured every student may.
func (r *Roles) CanChat(studentID string) bool {
	if studentID == "" {
		return false
	}
	return len(r.chat) == 0 || r.chat[studentID]
}
