package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.Port)
	}
	if len(cfg.BypassStudentIDs) != 4 {
		t.Fatalf("expected 4 bypass ids, got %v", cfg.BypassStudentIDs)
	}
	if len(cfg.AdminStudentIDs) != 1 || cfg.AdminStudentIDs[0] != "8918" {
		t.Fatalf("expected admin id 8918, got %v", cfg.AdminStudentIDs)
	}
	if !cfg.ClearSessionOnSignOutFailure {
		t.Fatalf("expected local session clearing on sign-out failure by default")
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("LEARNHUB_PORT", "9090")
	t.Setenv("LEARNHUB_BACKEND", "MEMORY")
	t.Setenv("LEARNHUB_ADMIN_STUDENT_IDS", "1001 1002")
	t.Setenv("LEARNHUB_SESSION_COOKIE_EXPIRATION", "2h")
	t.Setenv("LEARNHUB_CLEAR_SESSION_ON_SIGNOUT_FAILURE", "false")
	t.Setenv("LEARNHUB_FIREBASE_PROJECT_ID", "learnhub-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("expected LEARNHUB_PORT override, got %d", cfg.Port)
	}
	if cfg.Backend != "memory" {
		t.Fatalf("expected backend to be lower-cased, got %s", cfg.Backend)
	}
	if len(cfg.AdminStudentIDs) != 2 || cfg.AdminStudentIDs[1] != "1002" {
		t.Fatalf("expected admin ids override, got %v", cfg.AdminStudentIDs)
	}
	if cfg.SessionCookieExpiration != 2*time.Hour {
		t.Fatalf("expected 2h cookie expiration, got %s", cfg.SessionCookieExpiration)
	}
	if cfg.ClearSessionOnSignOutFailure {
		t.Fatalf("expected sign-out failure behaviour override")
	}
	if cfg.FirebaseProjectID != "learnhub-test" {
		t.Fatalf("expected project id override, got %s", cfg.FirebaseProjectID)
	}
}

func TestLoadSeedAllowedStudents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "learnhub.yaml")
	contents := `backend: memory
seed_allowed_students:
  - student_id: "1001"
    name: Ada Lovelace
    email: ada@school.edu
  - student_id: "1002"
`
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	t.Setenv("LEARNHUB_CONFIG", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Backend != "memory" {
		t.Fatalf("expected backend from config file, got %s", cfg.Backend)
	}
	if len(cfg.SeedAllowedStudents) != 2 {
		t.Fatalf("expected 2 seeded students, got %v", cfg.SeedAllowedStudents)
	}
	first := cfg.SeedAllowedStudents[0]
	if first.StudentID != "1001" || first.Name != "Ada Lovelace" || first.Email != "ada@school.edu" {
		t.Fatalf("unexpected first seed: %+v", first)
	}
	if cfg.SeedAllowedStudents[1].StudentID != "1002" {
		t.Fatalf("unexpected second seed: %+v", cfg.SeedAllowedStudents[1])
	}
}
