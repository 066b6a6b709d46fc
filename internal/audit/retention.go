package audit

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Purger deletes audit rows past their retention window.
type Purger struct {
	pool *pgxpool.Pool
}

// NewPurger creates a pgx backed Purger.
func NewPurger(pool *pgxpool.Pool) *Purger {
	return &Purger{pool: pool}
}

// PurgeBefore removes rows of the given action that occurred before cutoff and
// reports how many were deleted.
func (p *Purger) PurgeBefore(ctx context.Context, action string, cutoff time.Time) (int64, error) {
	tag, err := p.pool.Exec(ctx, `DELETE FROM audit_logs WHERE action = $1 AND occurred_at < $2`, action, cutoff)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
