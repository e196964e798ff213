package usecase

import (
	"context"

	"github.com/Nate91117/teamnotes/domain"
)

// OperationBuffer abstracts the offline buffer so use cases stay storage-agnostic.
type OperationBuffer interface {
	BufferTask(ctx context.Context, operation string, task *domain.Task) error
	BufferNote(ctx context.Context, operation string, note *domain.Note) error
}
