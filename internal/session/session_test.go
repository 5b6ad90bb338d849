package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/habitlit/internal/models"
)

func TestSignUpPersistsAcrossGateways(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	first := New(NewFileSlot(path))
	profile, err := first.SignUp(ctx, "ada@example.com", "hunter2")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if models.Deref(profile.Username) != "ada" {
		t.Errorf("expected username from email local part, got %q", models.Deref(profile.Username))
	}
	if profile.StreakCount != 0 || profile.Points != 0 {
		t.Errorf("expected zeroed counters, got %+v", profile)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("session file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	fresh := New(NewFileSlot(path))
	sess, err := fresh.GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess == nil || sess.User.ID != profile.ID {
		t.Fatalf("expected session for %s, got %+v", profile.ID, sess)
	}
	if cur, ok := fresh.Current(); !ok || cur.ID != profile.ID {
		t.Errorf("GetSession should activate the stored profile, got %+v %v", cur, ok)
	}

	if err := fresh.SignOut(ctx); err != nil {
		t.Fatalf("SignOut failed: %v", err)
	}
	sess, err = New(NewFileSlot(path)).GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession after sign-out failed: %v", err)
	}
	if sess != nil {
		t.Errorf("expected no session after sign-out, got %+v", sess)
	}
}

func TestSignInWithoutProfile(t *testing.T) {
	g := New(NewMemorySlot())

	_, err := g.SignIn(context.Background(), "nobody@example.com", "x")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err.Error() != "User not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if _, ok := g.Current(); ok {
		t.Error("no profile should be active")
	}
}

func TestSignInReactivatesStoredProfile(t *testing.T) {
	ctx := context.Background()
	slot := NewMemorySlot()

	profile, err := New(slot).SignUp(ctx, "grace@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	// The password is never checked
	got, err := New(slot).SignIn(ctx, "someone-else@example.com", "wrong")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	if got.ID != profile.ID {
		t.Errorf("expected %s, got %s", profile.ID, got.ID)
	}
}

func TestSignOutWhenEmpty(t *testing.T) {
	if err := New(NewMemorySlot()).SignOut(context.Background()); err != nil {
		t.Errorf("SignOut on an empty slot should succeed, got %v", err)
	}
	if err := NewFileSlot(filepath.Join(t.TempDir(), "none.json")).Delete(); err != nil {
		t.Errorf("deleting a missing session file should succeed, got %v", err)
	}
}

func TestKeyringSlot(t *testing.T) {
	gokeyring.MockInit()
	ctx := context.Background()

	slot := NewKeyringSlot()
	_ = slot.Delete()

	if _, err := slot.Get(); !errors.Is(err, ErrSlotEmpty) {
		t.Fatalf("expected ErrSlotEmpty, got %v", err)
	}

	profile, err := New(slot).SignUp(ctx, "linus@example.com", "pw")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}

	sess, err := New(NewKeyringSlot()).GetSession(ctx)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if sess == nil || sess.User.ID != profile.ID {
		t.Errorf("expected keyring session for %s, got %+v", profile.ID, sess)
	}

	if err := slot.Delete(); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := slot.Delete(); err != nil {
		t.Errorf("second Delete should succeed, got %v", err)
	}
	if !KeyringAvailable() {
		t.Error("mock keyring should report available")
	}
}

func TestNewSlot(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		backend string
		wantErr bool
	}{
		{backend: ""},
		{backend: "file"},
		{backend: "keyring"},
		{backend: "memory"},
		{backend: "cookie", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			slot, err := NewSlot(tt.backend, dir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewSlot(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if !tt.wantErr && slot == nil {
				t.Error("expected a slot")
			}
		})
	}

	slot, _ := NewSlot("file", dir)
	if fs, ok := slot.(*FileSlot); !ok || fs.Path() != filepath.Join(dir, "session.json") {
		t.Errorf("unexpected file slot %+v", slot)
	}
}

func TestCorruptSessionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if _, err := New(NewFileSlot(path)).GetSession(context.Background()); err == nil {
		t.Error("expected a parse error for a corrupt session file")
	}
}
