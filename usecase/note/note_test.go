package note

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Nate91117/teamnotes/domain"
	"github.com/Nate91117/teamnotes/repository"
)

type MockNoteRepository struct{ mock.Mock }

func (m *MockNoteRepository) GetByID(ctx context.Context, id string) (*domain.Note, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) List(ctx context.Context, filter repository.NoteFilter) ([]domain.Note, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Note), args.Error(1)
}

func (m *MockNoteRepository) Create(ctx context.Context, note *domain.Note) (*domain.Note, error) {
	args := m.Called(ctx, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Note), args.Error(1)
}

func (m *MockNoteRepository) Update(ctx context.Context, note *domain.Note) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNoteRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockOperationBuffer struct{ mock.Mock }

func (m *MockOperationBuffer) BufferTask(ctx context.Context, operation string, task *domain.Task) error {
	return m.Called(ctx, operation, task).Error(0)
}

func (m *MockOperationBuffer) BufferNote(ctx context.Context, operation string, note *domain.Note) error {
	return m.Called(ctx, operation, note).Error(0)
}

var testScope = domain.Scope{UserID: "user-1", TeamID: "team-1"}

func TestCreateStampsScope(t *testing.T) {
	notes := new(MockNoteRepository)
	uc := New(notes, nil, nil, nil)

	notes.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Note) bool {
		return n.UserID == "user-1" && n.TeamID == "team-1"
	})).Return(&domain.Note{ID: "note-1", UserID: "user-1", TeamID: "team-1", Title: "Standup"}, nil)

	created, err := uc.Create(context.Background(), testScope, &domain.Note{Title: "Standup"})
	assert.NoError(t, err)
	assert.Equal(t, "note-1", created.ID)
}

func TestCreateBuffersWhenStoreUnreachable(t *testing.T) {
	notes := new(MockNoteRepository)
	buffer := new(MockOperationBuffer)
	uc := New(notes, buffer, nil, nil)

	notes.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))
	buffer.On("BufferNote", mock.Anything, "create", mock.MatchedBy(func(n *domain.Note) bool {
		return n.Title == "Standup" && n.UserID == "user-1"
	})).Return(nil)

	created, err := uc.Create(context.Background(), testScope, &domain.Note{Title: "Standup"})
	assert.NoError(t, err)
	assert.NotNil(t, created)
	buffer.AssertExpectations(t)
}

func TestCreateSurfacesErrorWhenBufferFails(t *testing.T) {
	notes := new(MockNoteRepository)
	buffer := new(MockOperationBuffer)
	uc := New(notes, buffer, nil, nil)

	storeErr := errors.New("connection refused")
	notes.On("Create", mock.Anything, mock.Anything).Return(nil, storeErr)
	buffer.On("BufferNote", mock.Anything, "create", mock.Anything).Return(errors.New("disk full"))

	_, err := uc.Create(context.Background(), testScope, &domain.Note{Title: "Standup"})
	assert.ErrorIs(t, err, storeErr)
}

func TestDeleteNotFoundIsNotBuffered(t *testing.T) {
	notes := new(MockNoteRepository)
	buffer := new(MockOperationBuffer)
	uc := New(notes, buffer, nil, nil)

	notes.On("Delete", mock.Anything, "note-1").Return(domain.ErrNoteNotFound)

	err := uc.Delete(context.Background(), testScope, "note-1")
	assert.ErrorIs(t, err, domain.ErrNoteNotFound)
	buffer.AssertNotCalled(t, "BufferNote", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteBuffersOnStoreFailure(t *testing.T) {
	notes := new(MockNoteRepository)
	buffer := new(MockOperationBuffer)
	uc := New(notes, buffer, nil, nil)

	notes.On("Delete", mock.Anything, "note-1").Return(errors.New("connection refused"))
	buffer.On("BufferNote", mock.Anything, "delete", mock.MatchedBy(func(n *domain.Note) bool {
		return n.ID == "note-1"
	})).Return(nil)

	assert.NoError(t, uc.Delete(context.Background(), testScope, "note-1"))
	buffer.AssertExpectations(t)
}

func TestListRequiresScope(t *testing.T) {
	uc := New(new(MockNoteRepository), nil, nil, nil)

	_, err := uc.List(context.Background(), domain.Scope{UserID: "user-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}
