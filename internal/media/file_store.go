package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// fileStore implements Store on the local filesystem.
type fileStore struct {
	root    string
	baseURL string
	logger  zerolog.Logger
}

// NewFileStore creates a store writing under root and served from baseURL.
func NewFileStore(root, baseURL string, logger zerolog.Logger) Store {
	return &fileStore{
		root:    root,
		baseURL: baseURL,
		logger:  logger.With().Str("component", "media-file-store").Logger(),
	}
}

func (s *fileStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid media key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}

// Save writes body to root/key, creating directories as needed.
func (s *fileStore) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	dst, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to create media directory")
		return "", fmt.Errorf("failed to create media directory: %w", err)
	}

	file, err := os.Create(dst)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to create media file")
		return "", fmt.Errorf("failed to create media file %s: %w", key, err)
	}

	written, err := io.Copy(file, body)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst)
		s.logger.Error().Err(err).Str("key", key).Msg("failed to write media file")
		return "", fmt.Errorf("failed to write media file %s: %w", key, err)
	}

	s.logger.Info().
		Str("key", key).
		Int64("bytes", written).
		Msg("media file saved")

	return key, nil
}

func (s *fileStore) Delete(ctx context.Context, key string) error {
	dst, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
		s.logger.Error().Err(err).Str("key", key).Msg("failed to delete media file")
		return fmt.Errorf("failed to delete media file %s: %w", key, err)
	}
	return nil
}

func (s *fileStore) URL(key string) string {
	return joinURL(s.baseURL, key)
}
