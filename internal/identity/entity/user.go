package entity

import (
	"strings"
	"time"

	"github.com/serikimmo/serik/internal/pkg/secret"
	"github.com/serikimmo/serik/internal/pkg/valueobject"
)

type User struct {
	ID            int64
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	AvatarURL     string
	Role          Role
	Password      string // hashed, empty for passwordless accounts
	EmailVerified bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type Session struct {
	ID        int64
	UserID    int64
	Token     string // hashed
	ExpiresAt time.Time
	Revoked   bool
	Metadata  valueobject.JSONMap
}

// ---- //

// UserSecret is the projection loaded for secret verification: the owning
// user plus the one secret slot being checked.
type UserSecret struct {
	UserID        int64
	Email         string
	FirstName     string
	LastName      string
	Role          Role
	EmailVerified bool
	Secret        secret.Record
}

func (u UserSecret) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type NewUser struct {
	ID            int64
	Email         string
	FirstName     string
	LastName      string
	Phone         string
	Password      string // hashed, empty when registering without one
	Role          Role
	EmailVerified bool
}

// GoogleUser carries the identity asserted by Google after an OAuth
// exchange. Upserted by email, so a returning user keeps their row.
type GoogleUser struct {
	ID            int64 // assigned when the upsert inserts
	Email         string
	FirstName     string
	LastName      string
	AvatarURL     string
	EmailVerified bool
}
