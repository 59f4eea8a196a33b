package users

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role names recognised by the credentials server.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

type User struct {
	ID            string    `json:"id,omitempty"`             // Unique identifier for the user (the token subject)
	Username      string    `json:"username,omitempty"`       // Unique username
	Email         string    `json:"email,omitempty"`          // User's email address
	EmailVerified bool      `json:"email_verified,omitempty"` // Has the email address been confirmed
	PasswordHash  string    `json:"-"`                        // Hashed version of the user's password - never serialize
	FirstName     string    `json:"first_name,omitempty"`     // First name of the user
	LastName      string    `json:"last_name,omitempty"`      // Last name of the user
	Roles         []string  `json:"roles,omitempty"`          // Role memberships
	SecurityStamp string    `json:"-"`                        // Credential rotation marker - never serialize
	DateJoined    time.Time `json:"date_joined,omitempty"`    // Date and time when the user registered
}

// HasRole reports whether the user is a member of the named role.
func (u *User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
