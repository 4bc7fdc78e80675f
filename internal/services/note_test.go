package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quillnotes/apiserver/internal/store"
	"github.com/quillnotes/apiserver/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeNoteRepo is an in-memory NoteRepository with the same compound
// owner+id visibility rule as the Postgres one.
type fakeNoteRepo struct {
	notes map[uuid.UUID]types.Note
}

func newFakeNoteRepo() *fakeNoteRepo {
	return &fakeNoteRepo{notes: make(map[uuid.UUID]types.Note)}
}

func (r *fakeNoteRepo) Create(ctx context.Context, note types.Note) (types.Note, error) {
	note.ID = uuid.New()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	r.notes[note.ID] = note
	return note, nil
}

func (r *fakeNoteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Note, error) {
	notes := []types.Note{}
	for _, note := range r.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (r *fakeNoteRepo) Get(ctx context.Context, ownerID, id uuid.UUID) (types.Note, error) {
	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return types.Note{}, store.ErrNotFound
	}
	return note, nil
}

func (r *fakeNoteRepo) Update(ctx context.Context, ownerID, id uuid.UUID, title, content string) (types.Note, error) {
	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return types.Note{}, store.ErrNotFound
	}
	note.Title = title
	note.Content = content
	note.UpdatedAt = time.Now()
	r.notes[id] = note
	return note, nil
}

func (r *fakeNoteRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(r.notes, note.ID)
	return nil
}

func TestNoteService_CreateAndGetRoundTrip(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())
	ctx := context.Background()
	owner := uuid.New()

	created, err := svc.Create(ctx, owner, "T", "C")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, created.ID)
	assert.Equal(t, owner, created.OwnerID)

	got, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.Equal(t, "C", got.Content)
	assert.Equal(t, owner, got.OwnerID)

	// Reads are idempotent absent mutation.
	again, err := svc.Get(ctx, owner, created.ID)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestNoteService_EmptyFieldsAllowed(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())
	ctx := context.Background()
	owner := uuid.New()

	note, err := svc.Create(ctx, owner, "", "")
	require.NoError(t, err)

	got, err := svc.Get(ctx, owner, note.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Title)
	assert.Empty(t, got.Content)
}

func TestNoteService_ListScopedToOwner(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	notes, err := svc.List(ctx, ownerA)
	require.NoError(t, err)
	assert.Empty(t, notes, "a fresh account has no notes")

	_, err = svc.Create(ctx, ownerA, "Hi", "World")
	require.NoError(t, err)

	notes, err = svc.List(ctx, ownerA)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "Hi", notes[0].Title)
	assert.Equal(t, "World", notes[0].Content)

	notes, err = svc.List(ctx, ownerB)
	require.NoError(t, err)
	assert.Empty(t, notes, "another owner must not see them")
}

func TestNoteService_OwnershipIsolation(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())
	ctx := context.Background()
	ownerA := uuid.New()
	ownerB := uuid.New()

	note, err := svc.Create(ctx, ownerA, "secret", "contents")
	require.NoError(t, err)

	// To B, A's note is indistinguishable from a missing note.
	_, err = svc.Get(ctx, ownerB, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Update(ctx, ownerB, note.ID, "stolen", "stolen")
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.Delete(ctx, ownerB, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// And the note is untouched for A.
	got, err := svc.Get(ctx, ownerA, note.ID)
	require.NoError(t, err)
	assert.Equal(t, "secret", got.Title)
}

func TestNoteService_Update(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())
	ctx := context.Background()
	owner := uuid.New()

	note, err := svc.Create(ctx, owner, "old", "old body")
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, note.ID, "new", "new body")
	require.NoError(t, err)
	assert.Equal(t, note.ID, updated.ID, "id is immutable")
	assert.Equal(t, owner, updated.OwnerID, "owner is immutable")
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, "new body", updated.Content)

	_, err = svc.Update(ctx, owner, uuid.New(), "x", "y")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNoteService_DeleteThenGet(t *testing.T) {
	svc := NewNoteService(newFakeNoteRepo())
	ctx := context.Background()
	owner := uuid.New()

	note, err := svc.Create(ctx, owner, "T", "C")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, owner, note.ID))

	_, err = svc.Get(ctx, owner, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.Delete(ctx, owner, note.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "delete is not idempotent, the note is gone")
}
