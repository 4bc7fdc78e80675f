package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quillnotes/apiserver/internal/services"
	"github.com/quillnotes/apiserver/internal/store"
	"github.com/quillnotes/apiserver/types"
	"github.com/stretchr/testify/require"
)

// In-memory repositories matching the visibility rules of the Postgres
// ones, so handler tests exercise the full router without a database.

type memAccountRepo struct {
	accounts map[uuid.UUID]types.Account
	byEmail  map[string]uuid.UUID
}

func newMemAccountRepo() *memAccountRepo {
	return &memAccountRepo{
		accounts: make(map[uuid.UUID]types.Account),
		byEmail:  make(map[string]uuid.UUID),
	}
}

func (r *memAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (types.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return account, nil
}

func (r *memAccountRepo) GetByEmail(ctx context.Context, email string) (types.Account, error) {
	id, ok := r.byEmail[email]
	if !ok {
		return types.Account{}, store.ErrNotFound
	}
	return r.accounts[id], nil
}

func (r *memAccountRepo) Create(ctx context.Context, account types.Account) (types.Account, error) {
	if _, exists := r.byEmail[account.Email]; exists {
		return types.Account{}, store.ErrDuplicate
	}
	account.ID = uuid.New()
	now := time.Now()
	account.CreatedAt = now
	account.UpdatedAt = now
	r.accounts[account.ID] = account
	r.byEmail[account.Email] = account.ID
	return account, nil
}

type memNoteRepo struct {
	notes map[uuid.UUID]types.Note
}

func newMemNoteRepo() *memNoteRepo {
	return &memNoteRepo{notes: make(map[uuid.UUID]types.Note)}
}

func (r *memNoteRepo) Create(ctx context.Context, note types.Note) (types.Note, error) {
	note.ID = uuid.New()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	r.notes[note.ID] = note
	return note, nil
}

func (r *memNoteRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]types.Note, error) {
	notes := []types.Note{}
	for _, note := range r.notes {
		if note.OwnerID == ownerID {
			notes = append(notes, note)
		}
	}
	return notes, nil
}

func (r *memNoteRepo) Get(ctx context.Context, ownerID, id uuid.UUID) (types.Note, error) {
	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return types.Note{}, store.ErrNotFound
	}
	return note, nil
}

func (r *memNoteRepo) Update(ctx context.Context, ownerID, id uuid.UUID, title, content string) (types.Note, error) {
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

func (r *memNoteRepo) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	note, ok := r.notes[id]
	if !ok || note.OwnerID != ownerID {
		return store.ErrNotFound
	}
	delete(r.notes, id)
	return nil
}

// newTestRouter wires the full route tree the way internal/server does,
// minus the database and the broker.
func newTestRouter() *chi.Mux {
	accountService := services.NewAccountService(newMemAccountRepo(), nil, "test-secret", time.Hour)
	noteService := services.NewNoteService(newMemNoteRepo())
	authMiddleware := RequireAuth(accountService)

	router := chi.NewRouter()
	router.Get("/healthz", Healthz)
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, accountService)
	})
	router.Route("/notes", func(r chi.Router) {
		NoteRouter(r, noteService, authMiddleware)
	})
	return router
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &value))
	return value
}

func signup(t *testing.T, router http.Handler, email, password string) AuthResponse {
	t.Helper()
	rec := doJSON(t, router, http.MethodPost, "/auth/signup", "", SignupRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "signup failed: %s", rec.Body.String())
	return decodeBody[AuthResponse](t, rec)
}
