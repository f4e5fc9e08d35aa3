package users

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

const (
	// PasswordCost is the bcrypt work factor for stored password hashes.
	PasswordCost = 12

	// MaxPasswordBytes is the longest input bcrypt accepts.
	MaxPasswordBytes = 72
)

type User struct {
	ID           string    `json:"id"`                   // Unique identifier for the user
	Email        string    `json:"email"`                // Login name, stored lower-cased
	Name         string    `json:"name,omitempty"`       // Display name
	PasswordHash string    `json:"-"`                    // bcrypt hash - never serialize
	Role         Role      `json:"role"`                 // ADMIN or USER
	CreatedAt    time.Time `json:"created_at"`           // When the account was created
	UpdatedAt    time.Time `json:"updated_at"`           // Last profile or role change
	LastLogin    time.Time `json:"last_login,omitempty"` // Last successful login
}

// NormaliseEmail is the canonical form used for lookups.
func NormaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long, at most MaxPasswordBytes bytes
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password must be at most %d bytes long", MaxPasswordBytes)
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("password must contain at least one uppercase letter")
	}
	if !hasLower {
		return fmt.Errorf("password must contain at least one lowercase letter")
	}
	if !hasNumber {
		return fmt.Errorf("password must contain at least one number")
	}

	return nil
}

// HashPassword returns a salted bcrypt hash. Two calls never return the same string.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", fmt.Errorf("%w: %v", apperrors.ErrWeakPassword, err)
	}
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CheckPassword checks a password against the user's stored hash
func (u *User) CheckPassword(password string) bool {
	return CheckPasswordHash(password, u.PasswordHash)
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
