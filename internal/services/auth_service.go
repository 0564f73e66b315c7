package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/taskhub/taskhub/internal/constants"
	"github.com/taskhub/taskhub/internal/mailer"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
	"github.com/taskhub/taskhub/internal/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("an account with this email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrNameRequired         = errors.New("name is required")
	ErrEmailRequired        = errors.New("email is required")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidResetToken    = errors.New("invalid or expired reset token")
	ErrFailedToHashPassword = errors.New("failed to hash password")
)

// AuthService handles authentication related business logic.
type AuthService struct {
	accountRepo repository.AccountRepository
	mail        mailer.Mailer
	appBaseURL  string
	now         func() time.Time
}

// NewAuthService creates a new AuthService. mail may be nil when outbound
// email is not configured; password-reset requests are then logged only.
func NewAuthService(accountRepo repository.AccountRepository, mail mailer.Mailer, appBaseURL string) *AuthService {
	return &AuthService{
		accountRepo: accountRepo,
		mail:        mail,
		appBaseURL:  appBaseURL,
		now:         time.Now,
	}
}

// RegisterInput represents the required information to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// Register creates a new account with a hashed password.
func (s *AuthService) Register(input RegisterInput) (*models.Account, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	email := NormalizeEmail(input.Email)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}

	if _, err := s.accountRepo.FindByEmail(email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	account := &models.Account{
		Name:         name,
		Email:        email,
		PasswordHash: string(hashedPassword),
	}

	if err := s.accountRepo.Create(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and returns the authenticated account.
func (s *AuthService) Login(input LoginInput) (*models.Account, error) {
	account, err := s.accountRepo.FindByEmail(NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (s *AuthService) GetAccount(id uint64) (*models.Account, error) {
	account, err := s.accountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to find account: %w", err)
	}

	return account, nil
}

// ForgotPassword issues a single-use reset token and emails a reset link.
// An unknown email is not an error, so callers cannot probe for accounts.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	account, err := s.accountRepo.FindByEmail(NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("failed to find account: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiry := s.now().Add(constants.ResetTokenTTL * time.Minute)
	if err := s.accountRepo.SetResetToken(account.ID, token, expiry); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	if s.mail == nil {
		log.Printf("password reset requested for account %d but mail is not configured", account.ID)
		return nil
	}

	link := fmt.Sprintf("%s/auth/reset-password/%s", s.appBaseURL, token)
	body := fmt.Sprintf(
		"<h2>Password Reset</h2><p>Hi %s,</p><p>Click <a href=%q>here</a> to reset your password. The link expires in %d minutes.</p>",
		account.Name, link, constants.ResetTokenTTL,
	)
	if err := s.mail.Send(ctx, account.Email, "Reset your TaskHub password", body); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	return nil
}

// ResetPassword consumes a reset token and sets a new password. The token is
// cleared in the same update, so it cannot be used twice.
func (s *AuthService) ResetPassword(token, password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}

	account, err := s.accountRepo.FindByValidResetToken(token, s.now())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}

	if err := s.accountRepo.ResetPassword(account.ID, string(hashedPassword)); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	return nil
}

// NormalizeEmail lowercases and trims an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
