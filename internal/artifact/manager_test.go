package artifact

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAllocate_UniquePaths(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		a := m.Allocate()
		if seen[a.Path] {
			t.Fatalf("Allocate() returned duplicate path %s", a.Path)
		}
		seen[a.Path] = true

		if !strings.HasPrefix(a.Path, m.Dir()) {
			t.Errorf("path %s not under scratch dir %s", a.Path, m.Dir())
		}
		if filepath.Ext(a.Path) != ".mp4" {
			t.Errorf("path %s missing .mp4 extension", a.Path)
		}
	}
}

func TestFinalize_ReadsWrittenFile(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	a := m.Allocate()
	want := []byte("fake mp4 payload")
	if err := os.WriteFile(a.Path, want, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := m.Finalize(a)
	if err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Finalize() = %q, want %q", got, want)
	}
}

func TestFinalize_MissingFile(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	a := m.Allocate()
	if _, err := m.Finalize(a); err == nil {
		t.Fatal("Finalize() on missing file expected error, got nil")
	}
}

func TestDispose_RemovesFile(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	a := m.Allocate()
	if err := os.WriteFile(a.Path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m.Dispose(a)
	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Errorf("file still exists after Dispose: %v", err)
	}
}

func TestDispose_Idempotent(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	a := m.Allocate()
	if err := os.WriteFile(a.Path, []byte("x"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m.Dispose(a)
	m.Dispose(a) // second call must be a no-op
	m.Dispose(nil)
}

func TestDispose_MissingFileIsQuiet(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	// Never written; dispose of a failed transcode's path must not panic
	// or surface an error.
	m.Dispose(m.Allocate())
}

func TestDispose_IndependentLifecycles(t *testing.T) {
	m, err := NewManager(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	a := m.Allocate()
	b := m.Allocate()
	if err := os.WriteFile(a.Path, []byte("a"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(b.Path, []byte("b"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	m.Dispose(a)

	if _, err := os.Stat(b.Path); err != nil {
		t.Errorf("disposing one artifact affected another: %v", err)
	}
	m.Dispose(b)
}
