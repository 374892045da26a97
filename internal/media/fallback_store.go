package media

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"luxe-backoffice/internal/config"

	"github.com/rs/zerolog"
)

// localPrefix marks keys that were written to the local store by a fallback save.
const localPrefix = "local/"

// fallbackStore writes to S3 first and to the local filesystem when S3 fails.
type fallbackStore struct {
	s3     Store
	local  Store
	logger zerolog.Logger
}

// NewFallbackStore creates a store that tries s3 first, then falls back to local.
// If s3 is nil, local is used directly.
func NewFallbackStore(s3 Store, local Store, logger zerolog.Logger) Store {
	if s3 == nil {
		return local
	}
	return &fallbackStore{
		s3:     s3,
		local:  local,
		logger: logger.With().Str("component", "media-fallback-store").Logger(),
	}
}

// Save buffers body so it can be replayed against the local store.
func (f *fallbackStore) Save(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("failed to read media body: %w", err)
	}

	stored, err := f.s3.Save(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err == nil {
		return stored, nil
	}

	f.logger.Warn().
		Err(err).
		Str("key", key).
		Msg("failed to save to S3, falling back to local file system")

	stored, err = f.local.Save(ctx, key, bytes.NewReader(data), int64(len(data)), contentType)
	if err != nil {
		return "", err
	}
	return localPrefix + stored, nil
}

func (f *fallbackStore) Delete(ctx context.Context, key string) error {
	if local, ok := strings.CutPrefix(key, localPrefix); ok {
		return f.local.Delete(ctx, local)
	}
	return f.s3.Delete(ctx, key)
}

func (f *fallbackStore) URL(key string) string {
	if local, ok := strings.CutPrefix(key, localPrefix); ok {
		return f.local.URL(local)
	}
	return f.s3.URL(key)
}

// NewStore builds the configured store: local only, or S3 with local fallback.
func NewStore(ctx context.Context, mediaCfg config.MediaConfig, s3Cfg config.S3Config, logger zerolog.Logger) Store {
	local := NewFileStore(mediaCfg.Root, mediaCfg.BaseURL, logger)

	if !s3Cfg.Enabled {
		logger.Info().Msg("using local file system for media (S3 disabled)")
		return local
	}

	s3, err := NewS3Store(ctx, s3Cfg.Bucket, s3Cfg.Region, s3Cfg.Prefix, s3Cfg.BaseURL, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 media store, falling back to local file system only")
		return local
	}

	return NewFallbackStore(s3, local, logger)
}
