package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xear/backend/internal/infrastructure/config"
)

func TestNewS3DocumentStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3DocumentStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		_, err := NewS3DocumentStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing access key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "xear-documents",
			SecretAccessKey: "test-secret",
		}
		_, err := NewS3DocumentStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access key is required")
	})

	t.Run("missing secret key returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:      "xear-documents",
			AccessKeyID: "test-key",
		}
		_, err := NewS3DocumentStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "secret key is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "xear-documents",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			Region:          "eu-central-1",
			Endpoint:        "http://localhost:9000",
			UsePathStyle:    true,
			PresignExpiry:   15 * time.Minute,
		}
		storage, err := NewS3DocumentStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, storage)
		assert.Equal(t, "xear-documents", storage.GetBucket())
		assert.Equal(t, 15*time.Minute, storage.presignExpiry)
	})

	t.Run("default presign expiry is fifteen minutes", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "xear-documents",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		storage, err := NewS3DocumentStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, storage.presignExpiry)
	})

	t.Run("option overrides presign expiry", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Bucket:          "xear-documents",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
		}
		storage, err := NewS3DocumentStorage(cfg, WithPresignExpiry(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, storage.presignExpiry)
	})
}
