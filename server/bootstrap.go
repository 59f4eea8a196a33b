package server

import (
	"fmt"
	"log"
	"time"

	"github.com/jrsteele09/go-oidc-credentials/users"
)

const (
	seedUsername  = "zeus"
	seedPassword  = "P4ssw0rd!"
	seedEmail     = "fake@nowhere.com"
	seedFirstName = "John"
	seedLastName  = "Doe"
)

// seedUsers creates the development seed user on first start. Existing users
// are never modified.
func (s *Server) seedUsers() error {
	if _, err := s.repos.Users.GetByUsername(seedUsername); err == nil {
		return nil
	}

	passwordHash, err := users.HashPassword(seedPassword)
	if err != nil {
		return fmt.Errorf("[Server seedUsers] failed to hash seed password: %w", err)
	}

	seedUser := &users.User{
		Username:      seedUsername,
		Email:         seedEmail,
		EmailVerified: true,
		PasswordHash:  passwordHash,
		FirstName:     seedFirstName,
		LastName:      seedLastName,
		Roles:         []string{users.RoleAdmin},
		DateJoined:    time.Now(),
	}

	if err := s.repos.Users.Upsert(seedUser); err != nil {
		return fmt.Errorf("[Server seedUsers] failed to create seed user: %w", err)
	}

	if s.env == "DEV" {
		log.Printf("Seeded user %q (id %s)", seedUsername, seedUser.ID)
	}
	return nil
}
