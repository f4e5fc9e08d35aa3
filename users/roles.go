package users

import (
	"fmt"
	"strings"

	apperrors "github.com/jrsteele09/survey-admin/internal/errors"
)

// Role is the single authorization level carried by a user and their session.
type Role string

const (
	RoleAdmin Role = "ADMIN" // Can manage users
	RoleUser  Role = "USER"  // Manages customers, templates and their own keys
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts either case ("admin", "ADMIN").
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", apperrors.ErrInvalidRole, s)
	}
	return r, nil
}
