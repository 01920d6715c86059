package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/vbonduro/urbanhomes/internal/domain"
)

var ErrNotFound = errors.New("pending image not found")

// PendingImageStore persists staged images that have not yet been accepted by
// the backend.
type PendingImageStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPendingImageStore(db *sql.DB) *PendingImageStore {
	return &PendingImageStore{db: db, now: time.Now}
}

const pendingColumns = `id, property_id, storage_key, filename, mime_type, attempts, last_error, created_at`

func (s *PendingImageStore) Create(ctx context.Context, propertyID, storageKey, filename, mimeType string) (*domain.PendingImage, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_images (property_id, storage_key, filename, mime_type, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, propertyID, storageKey, filename, mimeType, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create pending image: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PendingImageStore) GetByID(ctx context.Context, id int64) (*domain.PendingImage, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pendingColumns+` FROM pending_images WHERE id = ?`, id)
	img, err := scanPending(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending image: %w", err)
	}
	return img, nil
}

func (s *PendingImageStore) ListByProperty(ctx context.Context, propertyID string) ([]*domain.PendingImage, error) {
	return s.list(ctx, `SELECT `+pendingColumns+` FROM pending_images WHERE property_id = ? ORDER BY id`, propertyID)
}

// ListOlderThan returns every pending image staged before cutoff.
func (s *PendingImageStore) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.PendingImage, error) {
	return s.list(ctx, `SELECT `+pendingColumns+` FROM pending_images WHERE created_at < ? ORDER BY id`, cutoff.UTC())
}

// CountByProperty returns the number of pending images per property id.
// Properties with nothing pending are absent from the map.
func (s *PendingImageStore) CountByProperty(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT property_id, COUNT(*) FROM pending_images GROUP BY property_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var id string
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("failed to scan pending image count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// RecordFailure bumps the attempt counter and stores the last error message.
func (s *PendingImageStore) RecordFailure(ctx context.Context, id int64, msg string) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE pending_images SET attempts = attempts + 1, last_error = ? WHERE id = ?
	`, msg, id)
	if err != nil {
		return fmt.Errorf("failed to record upload failure: %w", err)
	}
	return expectOne(result)
}

func (s *PendingImageStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM pending_images WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pending image: %w", err)
	}
	return expectOne(result)
}

func (s *PendingImageStore) DeleteByProperty(ctx context.Context, propertyID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM pending_images WHERE property_id = ?`, propertyID); err != nil {
		return fmt.Errorf("failed to delete pending images for property: %w", err)
	}
	return nil
}

func (s *PendingImageStore) list(ctx context.Context, query string, args ...any) ([]*domain.PendingImage, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var images []*domain.PendingImage
	for rows.Next() {
		img, err := scanPending(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pending image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPending(sc scanner) (*domain.PendingImage, error) {
	img := &domain.PendingImage{}
	err := sc.Scan(&img.ID, &img.PropertyID, &img.StorageKey, &img.Filename, &img.MimeType,
		&img.Attempts, &img.LastError, &img.CreatedAt)
	if err != nil {
		return nil, err
	}
	return img, nil
}

func expectOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
