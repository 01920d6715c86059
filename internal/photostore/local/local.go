// Package local stages listing photos on disk until the backend accepts them.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vbonduro/urbanhomes/internal/photostore"
)

// ErrUnsafeKey is returned for keys or prefixes that resolve outside the root.
var ErrUnsafeKey = errors.New("staging key escapes the storage root")

// Store keeps one directory per prefix under root. Photos are written to a
// temporary file and renamed into place, so a key only exists once its bytes
// are complete.
type Store struct {
	root   string
	logger *slog.Logger
}

func New(root string, logger *slog.Logger) (*Store, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve staging root: %w", err)
	}
	if err := os.MkdirAll(abs, 0750); err != nil {
		return nil, fmt.Errorf("create staging root: %w", err)
	}
	return &Store{root: abs, logger: logger}, nil
}

func (s *Store) Save(_ context.Context, prefix, mimeType string, r io.Reader) (string, error) {
	key := prefix + "/" + uuid.NewString() + photostore.ExtForMIME(mimeType)
	dest, err := s.resolve(key)
	if err != nil {
		return "", err
	}
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create staging file: %w", err)
	}
	discard := func() {
		if err := os.Remove(tmp.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to remove partial staging file", "path", tmp.Name(), "error", err)
		}
	}
	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		discard()
		return "", fmt.Errorf("write staging file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		discard()
		return "", fmt.Errorf("close staging file: %w", err)
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		discard()
		return "", fmt.Errorf("move staging file into place: %w", err)
	}
	return key, nil
}

func (s *Store) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	path, err := s.resolve(key)
	if err != nil {
		return nil, "", err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, "", photostore.ErrNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("open staged photo: %w", err)
	}
	return f, photostore.MIMEForExt(strings.ToLower(filepath.Ext(path))), nil
}

// Delete removes the photo and, when it was the last one, its prefix directory.
func (s *Store) Delete(_ context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return photostore.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("delete staged photo: %w", err)
	}
	if dir := filepath.Dir(path); dir != s.root {
		// Fails harmlessly while other photos remain.
		_ = os.Remove(dir)
	}
	return nil
}

// resolve maps a slash-separated key to a path below root.
func (s *Store) resolve(key string) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(key))
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeKey, key)
	}
	return path, nil
}
