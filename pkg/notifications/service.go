package notifications

import (
	"context"
	"database/sql"
	"time"

	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type ListNotificationsOptions struct {
	Limit     *int
	Offset    *int
	StudentID *string
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateNotification(ctx context.Context, notification *models.Notification) error {
	now := time.Now()
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = now
	}
	notification.UpdatedAt = notification.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(notification).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	return nil
}

// ListNotifications returns notifications newest first.
func (svc *Service) ListNotifications(ctx context.Context, opts ListNotificationsOptions) ([]*models.Notification, error) {
	notifications := []*models.Notification{}

	q := svc.db.
		NewSelect().
		Model(&notifications).
		Order("n.created_at DESC")

	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}
	if opts.StudentID != nil {
		q = q.Where("n.student_id = ?", *opts.StudentID)
	}

	err := q.Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return notifications, nil
}

// MarkRead flips the read flag on a notification.
func (svc *Service) MarkRead(ctx context.Context, id int) (*models.Notification, error) {
	notification := &models.Notification{}
	res, err := svc.db.
		NewUpdate().
		Model(notification).
		Set("read = ?", true).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Notification")
		}
		return nil, errors.WithStack(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if affected == 0 {
		return nil, errcodes.NotFound("Notification")
	}

	return notification, nil
}
