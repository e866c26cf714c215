package storage

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpen(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAvatarStore: %v", err)
	}

	content := []byte("fake-png-bytes")
	key, err := store.Save(bytes.NewReader(content), "me.png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(key, ".png") {
		t.Errorf("Expected key to keep the extension, got %q", key)
	}

	f, err := store.Open(key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer f.Close()

	got, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Stored content mismatch: got %q", got)
	}
}

func TestSaveRejectsUnknownFormat(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAvatarStore: %v", err)
	}

	if _, err := store.Save(bytes.NewReader([]byte("x")), "script.sh"); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestOpenRejectsPathTraversal(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAvatarStore: %v", err)
	}

	if _, err := store.Open("../../etc/passwd"); err == nil {
		t.Error("Expected error for path-like key")
	}
}

func TestRemoveMissingKeyIsNoError(t *testing.T) {
	store, err := NewAvatarStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAvatarStore: %v", err)
	}

	if err := store.Remove("does-not-exist.png"); err != nil {
		t.Errorf("Remove missing key: %v", err)
	}
	if err := store.Remove(""); err != nil {
		t.Errorf("Remove empty key: %v", err)
	}
}
