package kv

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, err := s.Get(ctx, "userContext"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing key, got %v", err)
	}

	if err := s.Put(ctx, "userContext", `{"conversationCount":1}`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "userContext", `{"conversationCount":2}`); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}

	got, err := s.Get(ctx, "userContext")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != `{"conversationCount":2}` {
		t.Fatalf("unexpected value %q", got)
	}

	if err := s.Delete(ctx, "userContext"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "userContext"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.Delete(ctx, "never-written"); err != nil {
		t.Fatalf("Delete of missing key should succeed: %v", err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	s, err := OpenFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	exerciseStore(t, s)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("OpenFileStore: %v", err)
	}
	if err := s1.Put(ctx, "demoUser", `{"name":"Sam"}`); err != nil {
		t.Fatalf("Put: %v", err)
	}

	s2, err := OpenFileStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	got, err := s2.Get(ctx, "demoUser")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got != `{"name":"Sam"}` {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestFileStoreRecoversFromCorruptDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, fileStoreName)
	if err := os.WriteFile(path, []byte(`{"userContext": "{\"conver`), 0o644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := Open(BackendFile, dir)
	if err != nil {
		t.Fatalf("Open over corrupt document: %v", err)
	}
	if _, err := s.Get(context.Background(), "userContext"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected empty store, got %v", err)
	}
	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Fatalf("expected corrupt document moved aside: %v", err)
	}

	exerciseStore(t, s)
}

func TestBoltStore(t *testing.T) {
	s, err := OpenBoltStore(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBoltStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestBoltStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := OpenBoltStore(dir)
	if err != nil {
		t.Fatalf("OpenBoltStore: %v", err)
	}
	if err := s1.Put(ctx, "demoUser", `{"name":"Sam"}`); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s1.Close()

	s2, err := OpenBoltStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	got, err := s2.Get(ctx, "demoUser")
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if got != `{"name":"Sam"}` {
		t.Fatalf("unexpected value %q", got)
	}
}

func TestBoltStoreRecoversFromCorruptFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, boltFileName)
	if err := os.WriteFile(path, []byte("definitely not a bolt database"), 0o600); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	s, err := OpenBoltStore(dir)
	if err != nil {
		t.Fatalf("OpenBoltStore over corrupt file: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path + ".corrupt"); err != nil {
		t.Fatalf("expected corrupt file moved aside: %v", err)
	}
	exerciseStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s1, err := OpenSQLiteStore(dir)
	if err != nil {
		t.Fatalf("OpenSQLiteStore: %v", err)
	}
	if err := s1.Put(ctx, "userContext", "{}"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	s1.Close()

	s2, err := OpenSQLiteStore(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s2.Close()
	if _, err := s2.Get(ctx, "userContext"); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}

func TestOpenRejectsUnknownBackend(t *testing.T) {
	if _, err := Open("redis", t.TempDir()); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	s, err := Open("memory", "")
	if err != nil {
		t.Fatalf("Open(memory): %v", err)
	}
	if _, ok := s.(*MemoryStore); !ok {
		t.Fatalf("expected *MemoryStore, got %T", s)
	}

	def, err := Open("", t.TempDir())
	if err != nil {
		t.Fatalf("Open(default): %v", err)
	}
	defer def.Close()
	if _, ok := def.(*BoltStore); !ok {
		t.Fatalf("expected *BoltStore as default, got %T", def)
	}
}
