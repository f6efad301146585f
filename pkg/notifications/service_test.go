package notifications

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/migrations"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func newTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())

	_, err = migrations.BringUpToDate(context.Background(), db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

func newNotification(studentID, message string) *models.Notification {
	return &models.Notification{
		StudentID:   studentID,
		StudentName: "Student " + studentID,
		BookID:      "DLB1",
		BookTitle:   "Some Book",
		Message:     message,
	}
}

func TestServiceCreateNotification(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	notification := newNotification("S100", "Your book is due tomorrow")
	require.NoError(t, svc.CreateNotification(ctx, notification))

	assert.NotZero(t, notification.ID)
	assert.False(t, notification.Read)
	assert.False(t, notification.CreatedAt.IsZero())
}

func TestServiceListNotifications_NewestFirst(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	first := newNotification("S100", "first")
	require.NoError(t, svc.CreateNotification(ctx, first))

	time.Sleep(10 * time.Millisecond)

	second := newNotification("S100", "second")
	require.NoError(t, svc.CreateNotification(ctx, second))

	notifications, err := svc.ListNotifications(ctx, ListNotificationsOptions{})
	require.NoError(t, err)
	require.Len(t, notifications, 2)
	assert.Equal(t, "second", notifications[0].Message)
	assert.Equal(t, "first", notifications[1].Message)
}

func TestServiceListNotifications_FiltersByStudent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.CreateNotification(ctx, newNotification("S100", "for S100")))
	require.NoError(t, svc.CreateNotification(ctx, newNotification("S200", "for S200")))

	studentID := "S100"
	notifications, err := svc.ListNotifications(ctx, ListNotificationsOptions{StudentID: &studentID})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	assert.Equal(t, "for S100", notifications[0].Message)
}

func TestServiceMarkRead(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	notification := newNotification("S100", "unread")
	require.NoError(t, svc.CreateNotification(ctx, notification))
	require.False(t, notification.Read)

	updated, err := svc.MarkRead(ctx, notification.ID)
	require.NoError(t, err)
	assert.True(t, updated.Read)

	_, err = svc.MarkRead(ctx, 9999)
	require.ErrorIs(t, err, errcodes.NotFound("Notification"))
}
