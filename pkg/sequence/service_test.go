package sequence

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

func insertBook(ctx context.Context, t *testing.T, db *bun.DB, bookID string) {
	t.Helper()

	now := time.Now()
	book := &models.Book{
		BookID:          bookID,
		Title:           "Title for " + bookID,
		Author:          "Author",
		AvailableCopies: 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	_, err := db.NewInsert().Model(book).Exec(ctx)
	require.NoError(t, err)
}

func TestNextBookID_StartsAtOne(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.Reconcile(ctx))

	for _, want := range []string{"DLB1", "DLB2", "DLB3"} {
		id, err := svc.NextBookID(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, id)
	}
}

func TestNextBookID_MissingCounter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	_, err := svc.NextBookID(ctx)
	require.ErrorIs(t, err, errcodes.StoreUnavailable())
}

func TestReconcile_RepairsExistingCounter(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	// First reconcile inserts the counter row; the second one has to update
	// it in place once books with higher suffixes exist.
	require.NoError(t, svc.Reconcile(ctx))

	insertBook(ctx, t, db, "DLB17")
	require.NoError(t, svc.Reconcile(ctx))

	id, err := svc.NextBookID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DLB18", id)
}

func TestNextBookID_ClosedStore(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.Reconcile(ctx))
	require.NoError(t, db.Close())

	_, err := svc.NextBookID(ctx)
	require.ErrorIs(t, err, errcodes.StoreUnavailable())
}

func TestReconcile_ResumesAfterHighestSuffix(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	insertBook(ctx, t, db, "DLB3")
	insertBook(ctx, t, db, "DLB17")
	insertBook(ctx, t, db, "DLB9")

	require.NoError(t, svc.Reconcile(ctx))

	id, err := svc.NextBookID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DLB18", id)
}

func TestReconcile_IgnoresMalformedIdentifiers(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	insertBook(ctx, t, db, "DLB5")
	insertBook(ctx, t, db, "DLBoops")
	insertBook(ctx, t, db, "XYZ900")
	insertBook(ctx, t, db, "DLB")

	require.NoError(t, svc.Reconcile(ctx))

	id, err := svc.NextBookID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DLB6", id)
}

func TestReconcile_NeverMovesCounterBackward(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := NewService(db)
	ctx := context.Background()

	require.NoError(t, svc.Reconcile(ctx))

	var last string
	for i := 0; i < 5; i++ {
		id, err := svc.NextBookID(ctx)
		require.NoError(t, err)
		last = id
	}
	assert.Equal(t, "DLB5", last)

	// Allocated identifiers were never persisted as books, so a fresh
	// reconcile sees an empty catalog. The counter must stay where it is.
	require.NoError(t, svc.Reconcile(ctx))

	id, err := svc.NextBookID(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DLB6", id)
}

func TestParseSuffix(t *testing.T) {
	t.Parallel()

	n, ok := parseSuffix("DLB42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), n)

	for _, id := range []string{"", "DLB", "DLB-1", "DLBx", "ABC12", "42"} {
		_, ok := parseSuffix(id)
		assert.False(t, ok, id)
	}
}
