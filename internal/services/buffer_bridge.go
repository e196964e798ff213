package services

import (
	"context"
	"encoding/json"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/internal/infrastructure/buffer"
	"github.com/Nate91117/teamnotes/usecase"
)

// BufferBridge adapts the buffer processor to the usecase-facing port.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:        task.ID,
		UserID:    task.UserID,
		Entity:    buffer.EntityTask,
		Operation: operation,
		Data:      payload,
		Priority:  4,
	}
	return b.processor.BufferOperation(ctx, item)
}

func (b *BufferBridge) BufferNote(ctx context.Context, operation string, note *domain.Note) error {
	if b.processor == nil || note == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(note)
	if err != nil {
		return err
	}
	item := buffer.Item{
		ID:        note.ID,
		UserID:    note.UserID,
		Entity:    buffer.EntityNote,
		Operation: operation,
		Data:      payload,
		Priority:  3,
	}
	return b.processor.BufferOperation(ctx, item)
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
