package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Book is a catalog entry. BookID is the human-readable identifier handed out
// by the sequence allocator (e.g. "DLB17") and is immutable once assigned.
type Book struct {
	bun.BaseModel `bun:"table:books,alias:b"`

	ID              int       `bun:",pk,nullzero" json:"id"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	BookID          string    `bun:",nullzero" json:"book_id"`
	Title           string    `bun:",nullzero" json:"title"`
	Author          string    `bun:",nullzero" json:"author"`
	Description     *string   `json:"description,omitempty"`
	Category        *string   `json:"category,omitempty"`
	CoverImageURL   *string   `json:"cover_image_url,omitempty"`
	AvailableCopies int       `json:"available_copies"`
	Likes           int       `json:"likes"`
}
