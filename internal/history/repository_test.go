package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "test.db"), nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newRecord(id string) *Record {
	now := time.Now().UTC().Truncate(time.Second)
	return &Record{
		ID:           id,
		SourceURL:    "https://example.com/watch?v=abc",
		StartSeconds: 10,
		EndSeconds:   15,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestNew_CreatesTables(t *testing.T) {
	db := testDB(t)

	for _, table := range []string{"clips", "_migrations"} {
		var name string
		err := db.Conn().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestNew_MigrationsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("first New() error = %v", err)
	}
	db1.Close()

	db2, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("second New() error = %v", err)
	}
	defer db2.Close()

	var count int
	if err := db2.Conn().QueryRow("SELECT COUNT(*) FROM _migrations").Scan(&count); err != nil {
		t.Fatalf("count migrations error = %v", err)
	}
	if count != 1 {
		t.Errorf("migration count = %d, want 1", count)
	}
}

func TestRepository_CreateAndGet(t *testing.T) {
	repo := NewRepository(testDB(t).Conn())
	ctx := context.Background()

	rec := newRecord("clip-1")
	if err := repo.Create(ctx, rec); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := repo.Get(ctx, "clip-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() returned nil for existing record")
	}
	if got.SourceURL != rec.SourceURL || got.StartSeconds != 10 || got.EndSeconds != 15 {
		t.Errorf("Get() = %+v, want %+v", got, rec)
	}
	if got.Status != StatusPending {
		t.Errorf("Status = %q, want pending", got.Status)
	}
}

func TestRepository_GetMissing(t *testing.T) {
	repo := NewRepository(testDB(t).Conn())

	got, err := repo.Get(context.Background(), "nope")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil", got)
	}
}

func TestRepository_Complete(t *testing.T) {
	repo := NewRepository(testDB(t).Conn())
	ctx := context.Background()

	if err := repo.Create(ctx, newRecord("clip-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Complete(ctx, "clip-1", 4096, 1200); err != nil {
		t.Fatalf("Complete() error = %v", err)
	}

	got, _ := repo.Get(ctx, "clip-1")
	if got.Status != StatusCompleted {
		t.Errorf("Status = %q, want completed", got.Status)
	}
	if got.OutputBytes != 4096 || got.ElapsedMs != 1200 {
		t.Errorf("OutputBytes/ElapsedMs = %d/%d, want 4096/1200", got.OutputBytes, got.ElapsedMs)
	}
}

func TestRepository_Fail(t *testing.T) {
	repo := NewRepository(testDB(t).Conn())
	ctx := context.Background()

	if err := repo.Create(ctx, newRecord("clip-1")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if err := repo.Fail(ctx, "clip-1", "TranscodeFailed", "ffmpeg exited 1", 300); err != nil {
		t.Fatalf("Fail() error = %v", err)
	}

	got, _ := repo.Get(ctx, "clip-1")
	if got.Status != StatusFailed {
		t.Errorf("Status = %q, want failed", got.Status)
	}
	if got.ErrorKind != "TranscodeFailed" || got.Error != "ffmpeg exited 1" {
		t.Errorf("ErrorKind/Error = %q/%q", got.ErrorKind, got.Error)
	}
}

func TestRepository_ListOrderAndLimit(t *testing.T) {
	repo := NewRepository(testDB(t).Conn())
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"a", "b", "c"} {
		rec := newRecord(id)
		rec.CreatedAt = base.Add(time.Duration(i) * time.Second)
		rec.UpdatedAt = rec.CreatedAt
		if err := repo.Create(ctx, rec); err != nil {
			t.Fatalf("Create(%s) error = %v", id, err)
		}
	}

	got, err := repo.List(ctx, 2)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("List() returned %d records, want 2", len(got))
	}
	if got[0].ID != "c" || got[1].ID != "b" {
		t.Errorf("List() order = [%s %s], want [c b]", got[0].ID, got[1].ID)
	}
}

func TestMarkInterruptedClips(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	db1, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	repo := NewRepository(db1.Conn())
	if err := repo.Create(context.Background(), newRecord("stuck")); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	db1.Close()

	db2, err := New(dbPath, nil)
	if err != nil {
		t.Fatalf("reopen New() error = %v", err)
	}
	defer db2.Close()

	got, err := NewRepository(db2.Conn()).Get(context.Background(), "stuck")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != StatusFailed {
		t.Errorf("Status after restart = %q, want failed", got.Status)
	}
	if got.Error != "interrupted by restart" {
		t.Errorf("Error = %q, want interrupted by restart", got.Error)
	}
}
