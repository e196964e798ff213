package note

import (
	"context"

	"go.uber.org/zap"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
	"github.com/Nate91117/teamnotes/usecase"
)

// UseCase manages the caller's notes. Writes fall back to the offline buffer
// when the store is unreachable, same as tasks.
type UseCase struct {
	notes    repository.NoteRepository
	buffer   usecase.OperationBuffer
	notifier usecase.ChangeNotifier
	logger   *zap.Logger
}

func New(notes repository.NoteRepository, buffer usecase.OperationBuffer, notifier usecase.ChangeNotifier, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{notes: notes, buffer: buffer, notifier: notifier, logger: logger}
}

// List returns the caller's notes, most recently updated first.
func (uc *UseCase) List(ctx context.Context, scope domain.Scope) ([]domain.Note, error) {
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	return uc.notes.List(ctx, repository.NoteFilter{UserID: scope.UserID, TeamID: scope.TeamID})
}

func (uc *UseCase) Get(ctx context.Context, id string) (*domain.Note, error) {
	return uc.notes.GetByID(ctx, id)
}

func (uc *UseCase) Create(ctx context.Context, scope domain.Scope, note *domain.Note) (*domain.Note, error) {
	if note == nil || note.Title == "" {
		return nil, domain.ErrInvalidPayload
	}
	if !scope.Valid() {
		return nil, domain.ErrInvalidPayload
	}
	note.UserID = scope.UserID
	note.TeamID = scope.TeamID

	created, err := uc.notes.Create(ctx, note)
	if err != nil {
		if uc.shouldBuffer(ctx, "create", note) {
			return note, nil
		}
		return nil, err
	}
	uc.notify(ctx, "create", scope, created.ID)
	return created, nil
}

func (uc *UseCase) Update(ctx context.Context, scope domain.Scope, note *domain.Note) (*domain.Note, error) {
	if note == nil || note.ID == "" {
		return nil, domain.ErrInvalidPayload
	}
	if err := uc.notes.Update(ctx, note); err != nil {
		if uc.shouldBuffer(ctx, "update", note) {
			return note, nil
		}
		return nil, err
	}
	uc.notify(ctx, "update", scope, note.ID)
	return note, nil
}

func (uc *UseCase) Delete(ctx context.Context, scope domain.Scope, id string) error {
	if err := uc.notes.Delete(ctx, id); err != nil {
		if err == domain.ErrNoteNotFound {
			return err
		}
		note := &domain.Note{ID: id}
		if uc.shouldBuffer(ctx, "delete", note) {
			return nil
		}
		return err
	}
	uc.notify(ctx, "delete", scope, id)
	return nil
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, note *domain.Note) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferNote(ctx, operation, note); err != nil {
		uc.logger.Error("failed to buffer note operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("note operation buffered", zap.String("operation", operation))
	return true
}

func (uc *UseCase) notify(ctx context.Context, operation string, scope domain.Scope, entityID string) {
	if err := usecase.Notify(ctx, uc.notifier, "notes", operation, scope, entityID); err != nil {
		uc.logger.Warn("change notification failed", zap.Error(err))
	}
}
