package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User roles. Students authenticate against the students table; users exist
// for staff accounts.
const (
	RoleLibrarian = "librarian"
	RoleStudent   = "student"
)

// User is a staff account (librarian/admin).
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `bun:",nullzero" json:"username"`
	PasswordHash string    `json:"-"` // Never expose password hash
	Role         string    `bun:",nullzero" json:"role"`
	Name         *string   `json:"name,omitempty"`
	Email        *string   `json:"email,omitempty"`
	Mobile       *string   `json:"mobile,omitempty"`
	Address      *string   `json:"address,omitempty"`
}
