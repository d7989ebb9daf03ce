package adapter

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/fleetops/backend/internal/domain/entity"
)

// FileUpload carries one raw uploaded file into the attachment store.
// The core never interprets file contents.
type FileUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// AttachmentStore persists uploaded files and returns descriptors to attach
// to cost entries.
type AttachmentStore interface {
	// Store saves one file under the given trip and returns its descriptor.
	Store(ctx context.Context, tripID uuid.UUID, upload FileUpload) (entity.Attachment, error)

	// Remove deletes a previously stored attachment. Used to roll back
	// uploads when the trip write that references them fails.
	Remove(ctx context.Context, tripID uuid.UUID, attachment entity.Attachment) error
}
