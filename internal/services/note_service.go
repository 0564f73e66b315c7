package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
)

var (
	ErrNoteTitleRequired   = errors.New("note title is required")
	ErrNoteContentRequired = errors.New("note content is required")
)

// NoteService handles note business logic
type NoteService struct {
	noteRepo repository.NoteRepository
}

// NewNoteService creates a new NoteService
func NewNoteService(noteRepo repository.NoteRepository) *NoteService {
	return &NoteService{
		noteRepo: noteRepo,
	}
}

// CreateNoteInput represents input for creating a note
type CreateNoteInput struct {
	AccountID uint64
	Title     string
	Content   string
	Progress  int
}

// CreateNote creates a new note for the account. Progress is clamped to 0-100.
func (s *NoteService) CreateNote(input CreateNoteInput) (*models.Note, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrNoteTitleRequired
	}
	if strings.TrimSpace(input.Content) == "" {
		return nil, ErrNoteContentRequired
	}

	progress := input.Progress
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}

	note := &models.Note{
		Title:     strings.TrimSpace(input.Title),
		Content:   input.Content,
		Progress:  progress,
		AccountID: input.AccountID,
	}

	if err := s.noteRepo.Create(note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}

	return note, nil
}

// ListNotes returns all notes owned by the account
func (s *NoteService) ListNotes(accountID uint64) ([]models.Note, error) {
	notes, err := s.noteRepo.ListByOwner(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// DeleteNote deletes an account's note; foreign ids match zero records.
func (s *NoteService) DeleteNote(noteID, accountID uint64) error {
	if err := s.noteRepo.Delete(noteID, accountID); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	return nil
}
