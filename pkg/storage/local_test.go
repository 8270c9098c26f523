package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	s, err := NewLocalStore(LocalConfig{BasePath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewLocalStore: %v", err)
	}
	return s
}

func TestLocalStoreWriteReadDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	content := "voice clip bytes"
	if err := s.Write(ctx, "voice/a.webm", strings.NewReader(content), int64(len(content)), "audio/webm"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	ok, err := s.Exists(ctx, "voice/a.webm")
	if err != nil || !ok {
		t.Fatalf("Exists = %v, %v; want true", ok, err)
	}

	r, err := s.Read(ctx, "voice/a.webm")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	got, err := io.ReadAll(r)
	r.Close()
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != content {
		t.Fatalf("content = %q, want %q", got, content)
	}

	if err := s.Delete(ctx, "voice/a.webm"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Read(ctx, "voice/a.webm"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Read after delete error = %v, want ErrNotFound", err)
	}

	// deleting a missing key is not an error
	if err := s.Delete(ctx, "voice/a.webm"); err != nil {
		t.Fatalf("Delete on missing key: %v", err)
	}
}

func TestLocalStoreReadMissing(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Read(context.Background(), "voice/none.webm"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestLocalStoreRefusesTraversal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Write(ctx, "../escape.txt", strings.NewReader("x"), 1, "text/plain"); err == nil {
		t.Fatal("Write accepted a key escaping the base path")
	}
}

func TestLocalStoreGetURL(t *testing.T) {
	s := newTestStore(t)
	url, err := s.GetURL(context.Background(), "voice/a.webm", 0)
	if err != nil {
		t.Fatalf("GetURL: %v", err)
	}
	if url != "/api/media/voice/a.webm" {
		t.Fatalf("url = %q", url)
	}
}
