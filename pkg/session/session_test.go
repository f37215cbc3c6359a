package session

import (
	"os"
	"path/filepath"
	"testing"

	"ridepool/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestOpenMissingFile(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "session.json"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("expected unauthenticated session")
	}
	if s.Mode() != models.ModeRider {
		t.Fatalf("default mode = %q, want rider", s.Mode())
	}
}

func TestSignInPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	user := &models.User{ID: primitive.NewObjectID(), Email: "dana@example.com", Mode: models.ModeDriver}
	if err := s.SignIn("tok-123", user); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if reopened.Token() != "tok-123" {
		t.Errorf("token = %q", reopened.Token())
	}
	if reopened.UserID() != user.ID {
		t.Errorf("user id = %s, want %s", reopened.UserID().Hex(), user.ID.Hex())
	}
	if reopened.Mode() != models.ModeDriver {
		t.Errorf("mode = %q, want driver", reopened.Mode())
	}
}

func TestSetModeRejectsUnknown(t *testing.T) {
	s := NewMemory()
	if err := s.SetMode("pilot"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if err := s.SetMode(models.ModeDriver); err != nil {
		t.Fatalf("SetMode: %v", err)
	}
	if s.Mode() != models.ModeDriver {
		t.Fatalf("mode = %q", s.Mode())
	}
}

func TestClearRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	s, _ := Open(path)
	if err := s.SignIn("tok", nil); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.IsAuthenticated() {
		t.Fatal("token survived Clear")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("session file still present: %v", err)
	}
}
