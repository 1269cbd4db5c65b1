package history

import (
	"context"
	"database/sql"
	"time"
)

type Repository interface {
	Create(ctx context.Context, rec *Record) error
	Complete(ctx context.Context, id string, outputBytes, elapsedMs int64) error
	Fail(ctx context.Context, id, errorKind, errorMsg string, elapsedMs int64) error
	Get(ctx context.Context, id string) (*Record, error)
	List(ctx context.Context, limit int) ([]*Record, error)
}

type SQLiteRepository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, rec *Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO clips (id, source_url, start_seconds, end_seconds, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.SourceURL, rec.StartSeconds, rec.EndSeconds, rec.Status,
		rec.CreatedAt.Format(time.RFC3339), rec.UpdatedAt.Format(time.RFC3339))
	return err
}

func (r *SQLiteRepository) Complete(ctx context.Context, id string, outputBytes, elapsedMs int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE clips SET status = ?, output_bytes = ?, elapsed_ms = ?, updated_at = ?
		WHERE id = ?
	`, StatusCompleted, outputBytes, elapsedMs, time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) Fail(ctx context.Context, id, errorKind, errorMsg string, elapsedMs int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE clips SET status = ?, error_kind = ?, error = ?, elapsed_ms = ?, updated_at = ?
		WHERE id = ?
	`, StatusFailed, errorKind, errorMsg, elapsedMs, time.Now().Format(time.RFC3339), id)
	return err
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, source_url, start_seconds, end_seconds, status, error_kind, error, output_bytes, elapsed_ms, created_at, updated_at
		FROM clips WHERE id = ?
	`, id)

	rec, err := scanRecord(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *SQLiteRepository) List(ctx context.Context, limit int) ([]*Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, source_url, start_seconds, end_seconds, status, error_kind, error, output_bytes, elapsed_ms, created_at, updated_at
		FROM clips ORDER BY created_at DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func scanRecord(scan func(dest ...any) error) (*Record, error) {
	var rec Record
	var errorKind, errorMsg sql.NullString
	var createdAt, updatedAt string

	err := scan(&rec.ID, &rec.SourceURL, &rec.StartSeconds, &rec.EndSeconds, &rec.Status,
		&errorKind, &errorMsg, &rec.OutputBytes, &rec.ElapsedMs, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	rec.ErrorKind = errorKind.String
	rec.Error = errorMsg.String
	rec.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &rec, nil
}
