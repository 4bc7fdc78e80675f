package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/quillnotes/apiserver/types"
)

// NoteRepository defines persistence operations for notes. Single-note
// operations take the owner alongside the id and report a foreign-owned
// note as store.ErrNotFound.
type NoteRepository interface {
	Create(ctx context.Context, note types.Note) (types.Note, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Note, error)
	Get(ctx context.Context, ownerID, id uuid.UUID) (types.Note, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, title, content string) (types.Note, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

// NoteService encapsulates note use-cases. Empty titles and contents are
// allowed; any richer validation belongs to the presentation layer.
type NoteService struct {
	repo NoteRepository
}

func NewNoteService(repo NoteRepository) *NoteService {
	return &NoteService{repo: repo}
}

func (s *NoteService) Create(ctx context.Context, ownerID uuid.UUID, title, content string) (types.Note, error) {
	return s.repo.Create(ctx, types.Note{
		OwnerID: ownerID,
		Title:   title,
		Content: content,
	})
}

func (s *NoteService) List(ctx context.Context, ownerID uuid.UUID) ([]types.Note, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *NoteService) Get(ctx context.Context, ownerID, id uuid.UUID) (types.Note, error) {
	return s.repo.Get(ctx, ownerID, id)
}

func (s *NoteService) Update(ctx context.Context, ownerID, id uuid.UUID, title, content string) (types.Note, error) {
	return s.repo.Update(ctx, ownerID, id, title, content)
}

func (s *NoteService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	return s.repo.Delete(ctx, ownerID, id)
}
