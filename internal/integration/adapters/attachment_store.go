// Package adapters implements adapter interfaces from the application layer.
package adapters

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/application/adapter"
	"github.com/fleetops/backend/internal/domain/entity"
)

// filesystemAttachmentStore implements the adapter.AttachmentStore interface
// backed by a local directory. Files are grouped per trip and prefixed with a
// fresh UUID so uploads with the same name never collide.
type filesystemAttachmentStore struct {
	baseDir string
	baseURL string
}

// NewFilesystemAttachmentStore creates an attachment store rooted at baseDir.
func NewFilesystemAttachmentStore(baseDir, baseURL string) adapter.AttachmentStore {
	return &filesystemAttachmentStore{
		baseDir: baseDir,
		baseURL: baseURL,
	}
}

// Store writes the upload to disk and returns its attachment metadata.
func (s *filesystemAttachmentStore) Store(ctx context.Context, tripID uuid.UUID, upload adapter.FileUpload) (entity.Attachment, error) {
	if err := ctx.Err(); err != nil {
		return entity.Attachment{}, err
	}

	tripDir := filepath.Join(s.baseDir, tripID.String())
	if err := os.MkdirAll(tripDir, 0o755); err != nil {
		return entity.Attachment{}, fmt.Errorf("failed to create attachment directory: %w", err)
	}

	storedName := uuid.New().String() + "_" + filepath.Base(upload.Filename)
	path := filepath.Join(tripDir, storedName)

	file, err := os.Create(path)
	if err != nil {
		return entity.Attachment{}, fmt.Errorf("failed to create attachment file: %w", err)
	}
	defer file.Close()

	size, err := io.Copy(file, upload.Reader)
	if err != nil {
		os.Remove(path)
		return entity.Attachment{}, fmt.Errorf("failed to write attachment file: %w", err)
	}

	return entity.Attachment{
		Filename:    upload.Filename,
		URL:         s.baseURL + "/" + tripID.String() + "/" + storedName,
		Size:        size,
		ContentType: upload.ContentType,
	}, nil
}

// Remove deletes a stored attachment file. A file that is already gone is
// not an error.
func (s *filesystemAttachmentStore) Remove(ctx context.Context, tripID uuid.UUID, attachment entity.Attachment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	storedName := filepath.Base(attachment.URL)
	path := filepath.Join(s.baseDir, tripID.String(), storedName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove attachment file: %w", err)
	}
	return nil
}
