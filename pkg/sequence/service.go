package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/devlibrary/devlib/pkg/errcodes"
	"github.com/devlibrary/devlib/pkg/models"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// BookIDPrefix is the fixed prefix of catalog identifiers ("DLB17").
const BookIDPrefix = "DLB"

// Service hands out catalog identifiers from a durable counter. The counter
// holds the highest numeric suffix allocated so far, so the next identifier is
// always seq + 1 regardless of how many processes are allocating.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Reconcile seeds (or repairs) the counter from the books already in the
// store. It scans every book_id, takes the maximum numeric suffix while
// ignoring malformed ones, and writes it with a single conditional upsert so
// the counter can only move forward even if two processes reconcile at once.
func (svc *Service) Reconcile(ctx context.Context) error {
	bookIDs := []string{}
	err := svc.db.
		NewSelect().
		Model((*models.Book)(nil)).
		Column("book_id").
		Scan(ctx, &bookIDs)
	if err != nil {
		return errors.WithStack(err)
	}

	var maxSuffix int64
	for _, id := range bookIDs {
		n, ok := parseSuffix(id)
		if ok && n > maxSuffix {
			maxSuffix = n
		}
	}

	counter := &models.Counter{Name: models.CounterBookID, Seq: maxSuffix}
	_, err = svc.db.
		NewInsert().
		Model(counter).
		On("CONFLICT (name) DO UPDATE").
		Set("seq = MAX(c.seq, EXCLUDED.seq)").
		Exec(ctx)
	return errors.WithStack(err)
}

// NextBookID atomically advances the counter and returns the formatted
// identifier. Allocation fails if the counter can't be read or written; the
// caller must not create a book without a valid identifier. Every failure on
// this path, a missing counter row included, surfaces as store-unavailable.
func (svc *Service) NextBookID(ctx context.Context) (string, error) {
	var seq int64
	_, err := svc.db.
		NewUpdate().
		Model((*models.Counter)(nil)).
		Set("seq = seq + 1").
		Where("name = ?", models.CounterBookID).
		Returning("seq").
		Exec(ctx, &seq)
	if err != nil {
		return "", errcodes.StoreUnavailable()
	}

	return fmt.Sprintf("%s%d", BookIDPrefix, seq), nil
}

// parseSuffix extracts the numeric suffix of an identifier. Malformed
// identifiers report ok=false and are skipped during reconciliation.
func parseSuffix(id string) (int64, bool) {
	if !strings.HasPrefix(id, BookIDPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, BookIDPrefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
