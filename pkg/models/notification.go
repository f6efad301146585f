package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Notification is a message for a student about a book. StudentName and
// BookTitle are snapshots, same as on BookRequest.
type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID          int       `bun:",pk,nullzero" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	StudentID   string    `bun:",nullzero" json:"student_id"`
	StudentName string    `bun:",nullzero" json:"student_name"`
	BookID      string    `bun:",nullzero" json:"book_id"`
	BookTitle   string    `bun:",nullzero" json:"book_title"`
	Message     string    `bun:",nullzero" json:"message"`
	Read        bool      `json:"read"`
}
