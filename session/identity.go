package session

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/survey-admin/users"
)

// Identity is who a verified session belongs to. It is fixed at issue time:
// a later role change is only visible after the user logs in again.
type Identity struct {
	SubjectID string     `json:"id"`
	Email     string     `json:"email"`
	Role      users.Role `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == users.RoleAdmin
}

// IdentityFromUser builds the identity carried by a session for u.
func IdentityFromUser(u *users.User) Identity {
	return Identity{SubjectID: u.ID, Email: u.Email, Role: u.Role}
}

// Claims is the JWT payload of a session token.
type Claims struct {
	Email string     `json:"email"`
	Role  users.Role `json:"role"`
	jwt.RegisteredClaims
}

// LegacyIdentity is granted to a request carrying the legacy auth-token cookie
// while the fallback is enabled.
var LegacyIdentity = Identity{
	SubjectID: "legacy-admin",
	Email:     "admin@admin.com",
	Role:      users.RoleAdmin,
}
