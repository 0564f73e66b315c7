package repository

import (
	"github.com/taskhub/taskhub/internal/models"
	"gorm.io/gorm"
)

// GormNoteRepository is a GORM implementation of NoteRepository
type GormNoteRepository struct {
	db *gorm.DB
}

// NewNoteRepository creates a new NoteRepository
func NewNoteRepository(db *gorm.DB) NoteRepository {
	return &GormNoteRepository{db: db}
}

// Create creates a new note
func (r *GormNoteRepository) Create(note *models.Note) error {
	return r.db.Create(note).Error
}

// ListByOwner retrieves all notes for an account, newest first
func (r *GormNoteRepository) ListByOwner(accountID uint64) ([]models.Note, error) {
	var notes []models.Note
	if err := r.db.
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Find(&notes).Error; err != nil {
		return nil, err
	}
	return notes, nil
}

// Delete deletes a note scoped to its owning account
func (r *GormNoteRepository) Delete(id, accountID uint64) error {
	return r.db.
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&models.Note{}).Error
}
