package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taskhub/taskhub/internal/dto"
	apierrors "github.com/taskhub/taskhub/internal/errors"
	"github.com/taskhub/taskhub/internal/middleware"
	"github.com/taskhub/taskhub/internal/services"
)

// NoteHandler coordinates note HTTP handlers.
type NoteHandler struct {
	noteService *services.NoteService
}

// NewNoteHandler creates a new NoteHandler.
func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{
		noteService: noteService,
	}
}

// ListNotes returns the caller's notes.
func (h *NoteHandler) ListNotes(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	notes, err := h.noteService.ListNotes(accountID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch notes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"notes": dto.ToNoteDTOs(notes)})
}

// CreateNote creates a note for the caller.
func (h *NoteHandler) CreateNote(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateNoteRequest struct {
		Title    string `form:"title" json:"title" binding:"required"`
		Content  string `form:"content" json:"content" binding:"required"`
		Progress int    `form:"progress" json:"progress"`
	}

	var req CreateNoteRequest
	if err := c.ShouldBind(&req); err != nil {
		apierrors.BadRequest(c, "Title and content are required")
		return
	}

	note, err := h.noteService.CreateNote(services.CreateNoteInput{
		AccountID: accountID,
		Title:     req.Title,
		Content:   req.Content,
		Progress:  req.Progress,
	})
	if err != nil {
		respondNoteError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToNoteDTO(*note))
}

// DeleteNote deletes one of the caller's notes; foreign ids are a no-op.
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	accountID, exists := middleware.GetAccountID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	noteID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.noteService.DeleteNote(noteID, accountID); err != nil {
		apierrors.InternalError(c, "Failed to delete note")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func respondNoteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNoteTitleRequired),
		errors.Is(err, services.ErrNoteContentRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
