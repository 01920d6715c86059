package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/vbonduro/urbanhomes/internal/apiclient"
	"github.com/vbonduro/urbanhomes/internal/domain"
	"github.com/vbonduro/urbanhomes/internal/photostore"
)

// pendingRepository is the subset of store.PendingImageStore that
// ImageUploader requires.
type pendingRepository interface {
	Create(ctx context.Context, propertyID, storageKey, filename, mimeType string) (*domain.PendingImage, error)
	ListByProperty(ctx context.Context, propertyID string) ([]*domain.PendingImage, error)
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*domain.PendingImage, error)
	CountByProperty(ctx context.Context) (map[string]int, error)
	RecordFailure(ctx context.Context, id int64, msg string) error
	Delete(ctx context.Context, id int64) error
}

// imagePusher is the subset of PropertyService that ImageUploader requires.
type imagePusher interface {
	UploadImages(ctx context.Context, id string, files []apiclient.File) ([]domain.PropertyImage, error)
}

// Upload is one image received from the admin form.
type Upload struct {
	Filename string
	MimeType string
	Data     []byte
}

// PushResult reports the outcome of pushing a property's staged images.
type PushResult struct {
	Uploaded int
	Pending  []*domain.PendingImage
	Err      error
}

// ImageUploader runs the second phase of a property save: images are staged
// locally, recorded as pending, then pushed to the backend. A failed push
// leaves the rows in place so the property reports "images pending".
type ImageUploader struct {
	pending pendingRepository
	staging photostore.PhotoStore
	pusher  imagePusher
	logger  *slog.Logger
	now     func() time.Time
}

func NewImageUploader(pending pendingRepository, staging photostore.PhotoStore, pusher imagePusher, logger *slog.Logger) *ImageUploader {
	return &ImageUploader{
		pending: pending,
		staging: staging,
		pusher:  pusher,
		logger:  logger,
		now:     time.Now,
	}
}

// Stage saves uploads to the staging store and records them as pending.
func (u *ImageUploader) Stage(ctx context.Context, propertyID string, uploads []Upload) ([]*domain.PendingImage, error) {
	staged := make([]*domain.PendingImage, 0, len(uploads))
	for _, up := range uploads {
		key, err := u.staging.Save(ctx, "property_"+propertyID, up.MimeType, bytes.NewReader(up.Data))
		if err != nil {
			return staged, fmt.Errorf("failed to stage %s: %w", up.Filename, err)
		}
		img, err := u.pending.Create(ctx, propertyID, key, up.Filename, up.MimeType)
		if err != nil {
			if derr := u.staging.Delete(ctx, key); derr != nil {
				u.logger.Error("failed to remove orphaned staged image", "key", key, "error", derr)
			}
			return staged, fmt.Errorf("failed to record pending image: %w", err)
		}
		staged = append(staged, img)
	}
	u.logger.Info("images staged", "property_id", propertyID, "count", len(staged))
	return staged, nil
}

// Push sends every pending image of the property to the backend in one
// multipart request. It never returns an error for the backend call itself;
// that is reported in PushResult so the caller can keep the property.
func (u *ImageUploader) Push(ctx context.Context, propertyID string) (*PushResult, error) {
	images, err := u.pending.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return &PushResult{}, nil
	}

	var files []apiclient.File
	var readers []io.Closer
	defer func() {
		for _, rc := range readers {
			_ = rc.Close()
		}
	}()
	var sendable []*domain.PendingImage
	for _, img := range images {
		rc, _, err := u.staging.Get(ctx, img.StorageKey)
		if err != nil {
			if errors.Is(err, photostore.ErrNotFound) {
				// The staged bytes are gone; the row can never succeed.
				u.logger.Warn("staged image missing, dropping", "property_id", propertyID, "key", img.StorageKey)
				if derr := u.pending.Delete(ctx, img.ID); derr != nil {
					u.logger.Error("failed to drop pending image", "id", img.ID, "error", derr)
				}
				continue
			}
			return nil, fmt.Errorf("failed to read staged image: %w", err)
		}
		readers = append(readers, rc)
		files = append(files, apiclient.File{Name: img.Filename, MimeType: img.MimeType, Data: rc})
		sendable = append(sendable, img)
	}
	if len(sendable) == 0 {
		return &PushResult{}, nil
	}

	if _, err := u.pusher.UploadImages(ctx, propertyID, files); err != nil {
		u.logger.Warn("image upload failed, images left pending",
			"property_id", propertyID, "count", len(sendable), "error", err)
		for _, img := range sendable {
			if rerr := u.pending.RecordFailure(ctx, img.ID, apiclient.Message(err)); rerr != nil {
				u.logger.Error("failed to record upload failure", "id", img.ID, "error", rerr)
			}
		}
		remaining, lerr := u.pending.ListByProperty(ctx, propertyID)
		if lerr != nil {
			return nil, lerr
		}
		return &PushResult{Pending: remaining, Err: err}, nil
	}

	for _, img := range sendable {
		u.discard(ctx, img)
	}
	u.logger.Info("images uploaded", "property_id", propertyID, "count", len(sendable))
	return &PushResult{Uploaded: len(sendable)}, nil
}

// StageAndPush is the full second phase of a property save. Images already
// pending for the property are pushed along with the new ones.
func (u *ImageUploader) StageAndPush(ctx context.Context, propertyID string, uploads []Upload) (*PushResult, error) {
	if len(uploads) > 0 {
		if _, err := u.Stage(ctx, propertyID, uploads); err != nil {
			return nil, err
		}
	}
	return u.Push(ctx, propertyID)
}

func (u *ImageUploader) Pending(ctx context.Context, propertyID string) ([]*domain.PendingImage, error) {
	return u.pending.ListByProperty(ctx, propertyID)
}

func (u *ImageUploader) PendingCounts(ctx context.Context) (map[string]int, error) {
	return u.pending.CountByProperty(ctx)
}

// Discard drops every pending image of a property, e.g. after it is deleted.
func (u *ImageUploader) Discard(ctx context.Context, propertyID string) error {
	images, err := u.pending.ListByProperty(ctx, propertyID)
	if err != nil {
		return err
	}
	for _, img := range images {
		u.discard(ctx, img)
	}
	return nil
}

// ExpireStale drops pending images staged more than maxAge ago and returns how
// many were removed.
func (u *ImageUploader) ExpireStale(ctx context.Context, maxAge time.Duration) (int, error) {
	images, err := u.pending.ListOlderThan(ctx, u.now().Add(-maxAge))
	if err != nil {
		return 0, err
	}
	for _, img := range images {
		u.discard(ctx, img)
	}
	return len(images), nil
}

func (u *ImageUploader) discard(ctx context.Context, img *domain.PendingImage) {
	if err := u.staging.Delete(ctx, img.StorageKey); err != nil && !errors.Is(err, photostore.ErrNotFound) {
		u.logger.Error("failed to delete staged image", "key", img.StorageKey, "error", err)
	}
	if err := u.pending.Delete(ctx, img.ID); err != nil {
		u.logger.Error("failed to delete pending image", "id", img.ID, "error", err)
	}
}
