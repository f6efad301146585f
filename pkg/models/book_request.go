package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Borrow-request statuses. Transitions are one-directional:
// pending -> approved or rejected, approved -> returned.
const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
	RequestStatusReturned = "returned"
)

// BookRequest tracks one student's request-to-return cycle for one book.
// BookTitle and StudentName are snapshots taken at request time; they are
// never refreshed if the book or student record changes later.
type BookRequest struct {
	bun.BaseModel `bun:"table:book_requests,alias:br"`

	ID           int        `bun:",pk,nullzero" json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	BookID       string     `bun:",nullzero" json:"book_id"`
	StudentID    string     `bun:",nullzero" json:"student_id"`
	BookTitle    string     `bun:",nullzero" json:"book_title"`
	StudentName  string     `bun:",nullzero" json:"student_name"`
	Status       string     `bun:",nullzero" json:"status"`
	RequestDate  time.Time  `json:"request_date"`
	BorrowDate   *time.Time `json:"borrow_date"`
	DueDate      *time.Time `json:"due_date"`
	ReturnedDate *time.Time `json:"returned_date"`
}
