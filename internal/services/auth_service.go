package services

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "spendbook/internal/errors"
	"spendbook/internal/logger"
)

// authService compares passwords against a bcrypt hash from configuration.
type authService struct {
	passwordHash string
}

// NewAuthService creates a new AuthServicer for the given bcrypt hash.
func NewAuthService(passwordHash string) AuthServicer {
	return &authService{passwordHash: passwordHash}
}

// VerifyOwnerPassword returns ErrInvalidCredentials unless password matches.
// Without a configured hash every attempt fails.
func (s *authService) VerifyOwnerPassword(password string) error {
	if s.passwordHash == "" {
		logger.Named("auth").Warn("login attempted but OWNER_PASSWORD_HASH is not set")
		return apperrors.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return apperrors.ErrInvalidCredentials
	}
	return nil
}
