package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Student is a library member. StudentID and Email are unique across all
// students.
type Student struct {
	bun.BaseModel `bun:"table:students,alias:s"`

	ID           int       `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	StudentID    string    `bun:",nullzero" json:"student_id"`
	Name         string    `bun:",nullzero" json:"name"`
	Number       *string   `json:"number,omitempty"`
	Address      *string   `json:"address,omitempty"`
	Email        string    `bun:",nullzero" json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash
	ImageURL     *string   `json:"image_url,omitempty"`
}
