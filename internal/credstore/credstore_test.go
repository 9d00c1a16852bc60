package credstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/balkashynov/worktime/internal/client"
)

func TestLoadEmpty(t *testing.T) {
	store := Open(filepath.Join(t.TempDir(), "state"))

	token, user, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "" || user != nil {
		t.Fatalf("expected nothing stored, got %q %+v", token, user)
	}
}

func TestSaveLoadClear(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	store := Open(dir)

	if err := store.Save("tok", client.User{ID: "u1", Email: "a@b.com", Name: "Ada"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, TokenKey)); err != nil {
		t.Fatalf("expected token file: %v", err)
	}

	// A fresh store sees the same data
	token, user, err := Open(dir).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if token != "tok" || user == nil || user.ID != "u1" {
		t.Fatalf("unexpected load %q %+v", token, user)
	}

	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	token, user, err = store.Load()
	if err != nil || token != "" || user != nil {
		t.Fatalf("expected cleared store, got %q %+v %v", token, user, err)
	}
}

func TestLoadCorruptUser(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	store := Open(dir)
	if err := store.Save("tok", client.User{ID: "u1"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, UserKey), []byte("{not json"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	if _, _, err := Open(dir).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestFailedSaveKeepsPreviousToken(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, TokenKey), []byte("old"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	// The profile write fails because its path is a directory
	if err := os.MkdirAll(filepath.Join(dir, UserKey, "x"), 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := Open(dir).Save("new", client.User{ID: "u2"}); err == nil {
		t.Fatal("expected save to fail")
	}

	raw, err := os.ReadFile(filepath.Join(dir, TokenKey))
	if err != nil {
		t.Fatalf("read token: %v", err)
	}
	if string(raw) != "old" {
		t.Fatalf("expected the previous token back, got %q", raw)
	}
}

func TestFailedSaveWithoutPreviousTokenLeavesNone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	if err := os.MkdirAll(filepath.Join(dir, UserKey, "x"), 0700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	if err := Open(dir).Save("new", client.User{ID: "u2"}); err == nil {
		t.Fatal("expected save to fail")
	}
	if _, err := os.Stat(filepath.Join(dir, TokenKey)); !os.IsNotExist(err) {
		t.Fatalf("expected no token file, got %v", err)
	}
}
