package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/quillnotes/apiserver/internal/services"
	"github.com/quillnotes/apiserver/internal/store"
)

// NoteHandler provides HTTP handlers for notes. Every route runs behind
// the auth middleware; the owner id always comes from the verified token,
// never from the request body.
type NoteHandler struct {
	noteService *services.NoteService
}

// NewNoteHandler constructs a handler with the provided service.
func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// NoteRouter registers note routes on the given router.
func NoteRouter(r chi.Router, noteService *services.NoteService, authMiddleware func(http.Handler) http.Handler) {
	handler := NewNoteHandler(noteService)

	r.Use(authMiddleware)
	r.Post("/", handler.CreateNote)
	r.Get("/", handler.ListNotes)
	r.Route("/{noteID}", func(r chi.Router) {
		r.Get("/", handler.GetNote)
		r.Put("/", handler.UpdateNote)
		r.Delete("/", handler.DeleteNote)
	})
}

func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.noteService.Create(r.Context(), ownerID, req.Title, req.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to create note")
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	notes, err := h.noteService.List(r.Context(), ownerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list notes")
		return
	}

	writeJSON(w, http.StatusOK, notes)
}

func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	noteID, err := parseNoteID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	note, err := h.noteService.Get(r.Context(), ownerID, noteID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to fetch note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	noteID, err := parseNoteID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	var req NoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}

	note, err := h.noteService.Update(r.Context(), ownerID, noteID, req.Title, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to update note")
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	ownerID, err := ownerIDFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	noteID, err := parseNoteID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid note id")
		return
	}

	if err := h.noteService.Delete(r.Context(), ownerID, noteID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "note not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete note")
		return
	}

	writeJSON(w, http.StatusOK, DeleteResponse{Deleted: true})
}

// NoteRequest is the body for create and update. Empty strings are valid.
type NoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type DeleteResponse struct {
	Deleted bool `json:"deleted"`
}

func parseNoteID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, "noteID"))
}
