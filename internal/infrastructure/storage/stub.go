package storage

import (
	"context"
	"errors"
	"time"

	appinsurance "github.com/xear/backend/internal/application/insurance"
)

// StubDocumentStorage is a placeholder implementation of ObjectStorageService.
// Use it in development environments without an object store; generated URLs
// point nowhere but keep the e-receipt flow functional.
type StubDocumentStorage struct {
	// BaseURL is the base URL for generated upload/download URLs
	BaseURL string
}

// NewStubDocumentStorage creates a new StubDocumentStorage
func NewStubDocumentStorage() *StubDocumentStorage {
	return &StubDocumentStorage{
		BaseURL: "https://storage.example.com",
	}
}

// Ensure StubDocumentStorage implements ObjectStorageService
var _ appinsurance.ObjectStorageService = (*StubDocumentStorage)(nil)

// GenerateUploadURL generates a stub upload URL
func (s *StubDocumentStorage) GenerateUploadURL(
	ctx context.Context,
	storageKey, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/upload/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// GenerateDownloadURL generates a stub download URL
func (s *StubDocumentStorage) GenerateDownloadURL(
	ctx context.Context,
	storageKey string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + storageKey + "?expires=" + expiresAt.Format(time.RFC3339)

	return url, expiresAt, nil
}

// DeleteObject is a no-op that always succeeds
func (s *StubDocumentStorage) DeleteObject(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	return nil
}

// ObjectExists always reports true so the scan confirmation flow works
// without a real backend
func (s *StubDocumentStorage) ObjectExists(ctx context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	return true, nil
}
