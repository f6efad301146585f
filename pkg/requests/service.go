package requests

import (
	"context"
	"database/sql"
	"time"

	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// LoanPeriod is how long an approved book is lent for; the due date is the
// borrow date plus this.
const LoanPeriod = 14 * 24 * time.Hour

type ListRequestsOptions struct {
	Limit     *int
	Offset    *int
	Status    *string
	StudentID *string

	includeTotal bool
}

// Service enforces the borrow-request state machine and keeps book
// availability consistent with it. It is the only writer of request statuses
// and of available_copies.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// CreateRequest opens a pending request for (book, student). Both references
// must exist. The book title and student name are snapshotted onto the
// request and never refreshed afterwards.
func (svc *Service) CreateRequest(ctx context.Context, bookID, studentID string) (*models.BookRequest, error) {
	book := &models.Book{}
	err := svc.db.NewSelect().
		Model(book).
		Where("b.book_id = ?", bookID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book")
		}
		return nil, errors.WithStack(err)
	}

	student := &models.Student{}
	err = svc.db.NewSelect().
		Model(student).
		Where("s.student_id = ?", studentID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Student")
		}
		return nil, errors.WithStack(err)
	}

	now := time.Now()
	request := &models.BookRequest{
		BookID:      bookID,
		StudentID:   studentID,
		BookTitle:   book.Title,
		StudentName: student.Name,
		Status:      models.RequestStatusPending,
		RequestDate: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err = svc.db.
		NewInsert().
		Model(request).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return request, nil
}

func (svc *Service) RetrieveRequest(ctx context.Context, id int) (*models.BookRequest, error) {
	request := &models.BookRequest{}
	err := svc.db.NewSelect().
		Model(request).
		Where("br.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book request")
		}
		return nil, errors.WithStack(err)
	}
	return request, nil
}

func (svc *Service) ListRequests(ctx context.Context, opts ListRequestsOptions) ([]*models.BookRequest, error) {
	r, _, err := svc.listRequestsWithTotal(ctx, opts)
	return r, errors.WithStack(err)
}

func (svc *Service) ListRequestsWithTotal(ctx context.Context, opts ListRequestsOptions) ([]*models.BookRequest, int, error) {
	opts.includeTotal = true
	return svc.listRequestsWithTotal(ctx, opts)
}

func (svc *Service) listRequestsWithTotal(ctx context.Context, opts ListRequestsOptions) ([]*models.BookRequest, int, error) {
	requests := []*models.BookRequest{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&requests).
		Order("br.request_date DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.Status != nil {
		q = q.Where("br.status = ?", *opts.Status)
	}
	if opts.StudentID != nil {
		q = q.Where("br.student_id = ?", *opts.StudentID)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return requests, total, nil
}

// UpdateStatus moves a pending request to approved or rejected. Any other
// requested status is invalid, as is any transition out of a terminal state.
func (svc *Service) UpdateStatus(ctx context.Context, id int, status string) (*models.BookRequest, error) {
	switch status {
	case models.RequestStatusApproved:
		return svc.approve(ctx, id)
	case models.RequestStatusRejected:
		return svc.reject(ctx, id)
	default:
		return nil, errcodes.InvalidStatus(status)
	}
}

// approve decrements the book's available copies and stamps the borrow and
// due dates. The decrement is a conditional update so two racing approvals of
// a last copy can't drive the count negative; everything runs in one
// transaction so a failure leaves prior state unchanged.
func (svc *Service) approve(ctx context.Context, id int) (*models.BookRequest, error) {
	request := &models.BookRequest{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(request).
			Where("br.id = ?", id).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Book request")
			}
			return errors.WithStack(err)
		}
		if request.Status != models.RequestStatusPending {
			return errcodes.InvalidStatus(models.RequestStatusApproved)
		}

		// Decrement only while copies remain.
		res, err := tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("available_copies = available_copies - 1").
			Set("updated_at = ?", time.Now()).
			Where("book_id = ?", request.BookID).
			Where("available_copies > 0").
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			exists, err := tx.NewSelect().
				Model((*models.Book)(nil)).
				Where("book_id = ?", request.BookID).
				Exists(ctx)
			if err != nil {
				return errors.WithStack(err)
			}
			if !exists {
				return errcodes.NotFound("Book")
			}
			return errcodes.Unavailable("Book")
		}

		now := time.Now()
		due := now.Add(LoanPeriod)
		request.Status = models.RequestStatusApproved
		request.BorrowDate = &now
		request.DueDate = &due
		request.UpdatedAt = now

		res, err = tx.NewUpdate().
			Model(request).
			Column("status", "borrow_date", "due_date", "updated_at").
			Where("id = ?", id).
			Where("status = ?", models.RequestStatusPending).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return errcodes.InvalidStatus(models.RequestStatusApproved)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}

// reject flips a pending request to rejected with no other side effects.
func (svc *Service) reject(ctx context.Context, id int) (*models.BookRequest, error) {
	request := &models.BookRequest{}

	err := svc.db.NewSelect().
		Model(request).
		Where("br.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Book request")
		}
		return nil, errors.WithStack(err)
	}
	if request.Status != models.RequestStatusPending {
		return nil, errcodes.InvalidStatus(models.RequestStatusRejected)
	}

	now := time.Now()
	request.Status = models.RequestStatusRejected
	request.UpdatedAt = now

	res, err := svc.db.NewUpdate().
		Model(request).
		Column("status", "updated_at").
		Where("id = ?", id).
		Where("status = ?", models.RequestStatusPending).
		Exec(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		return nil, errcodes.InvalidStatus(models.RequestStatusRejected)
	}

	return request, nil
}

// Return closes out the oldest approved request for (book, student), stamping
// the returned date, and gives the copy back to the catalog. The increment
// only happens when a request was actually flipped, and both writes share a
// transaction.
func (svc *Service) Return(ctx context.Context, bookID, studentID string) (*models.BookRequest, error) {
	request := &models.BookRequest{}

	err := svc.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		err := tx.NewSelect().
			Model(request).
			Where("br.book_id = ?", bookID).
			Where("br.student_id = ?", studentID).
			Where("br.status = ?", models.RequestStatusApproved).
			Order("br.borrow_date ASC").
			Limit(1).
			Scan(ctx)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errcodes.NotFound("Approved book request")
			}
			return errors.WithStack(err)
		}

		now := time.Now()
		request.Status = models.RequestStatusReturned
		request.ReturnedDate = &now
		request.UpdatedAt = now

		res, err := tx.NewUpdate().
			Model(request).
			Column("status", "returned_date", "updated_at").
			Where("id = ?", request.ID).
			Where("status = ?", models.RequestStatusApproved).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return errcodes.NotFound("Approved book request")
		}

		res, err = tx.NewUpdate().
			Model((*models.Book)(nil)).
			Set("available_copies = available_copies + 1").
			Set("updated_at = ?", now).
			Where("book_id = ?", bookID).
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		affected, err = res.RowsAffected()
		if err != nil {
			return errors.WithStack(err)
		}
		if affected == 0 {
			return errcodes.NotFound("Book")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return request, nil
}
