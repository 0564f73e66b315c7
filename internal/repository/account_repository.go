package repository

import (
	"time"

	"github.com/taskhub/taskhub/internal/models"
	"gorm.io/gorm"
)

// GormAccountRepository is a GORM implementation of AccountRepository
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &GormAccountRepository{db: db}
}

// Create creates a new account
func (r *GormAccountRepository) Create(account *models.Account) error {
	return r.db.Create(account).Error
}

// FindByID finds an account by ID
func (r *GormAccountRepository) FindByID(id uint64) (*models.Account, error) {
	var account models.Account
	if err := r.db.First(&account, id).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// FindByEmail finds an account by its lowercased email
func (r *GormAccountRepository) FindByEmail(email string) (*models.Account, error) {
	var account models.Account
	if err := r.db.Where("email = ?", email).First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// SetResetToken stores a password-reset token and its expiry on an account
func (r *GormAccountRepository) SetResetToken(id uint64, token string, expiry time.Time) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		}).Error
}

// FindByValidResetToken finds an account whose reset token matches and has not expired
func (r *GormAccountRepository) FindByValidResetToken(token string, now time.Time) (*models.Account, error) {
	var account models.Account
	if err := r.db.
		Where("reset_token = ? AND reset_token_expiry > ?", token, now).
		First(&account).Error; err != nil {
		return nil, err
	}
	return &account, nil
}

// ResetPassword sets a new password hash and clears the reset token in a single update
func (r *GormAccountRepository) ResetPassword(id uint64, passwordHash string) error {
	return r.db.Model(&models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"password_hash":      passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
}
