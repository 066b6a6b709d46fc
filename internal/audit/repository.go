package audit

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// WindowParams selects audit rows. Unset filters match everything.
type WindowParams struct {
	Action     string
	FromAt     pgtype.Timestamptz
	ToAt       pgtype.Timestamptz
	ActorID    pgtype.Text
	Reason     pgtype.Text
	OffsetRows int32
	LimitRows  int32
}

// Row is one audit_logs record as stored.
type Row struct {
	At       pgtype.Timestamptz
	ActorID  pgtype.Text
	EntityID string
	Meta     []byte
}

// Repository menyediakan akses baca ke audit_logs.
type Repository interface {
	Window(ctx context.Context, arg WindowParams) ([]Row, error)
	All(ctx context.Context, arg WindowParams) ([]Row, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a pgx backed audit repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

const timelineQuery = `
SELECT occurred_at, actor_id, entity_id, meta
FROM audit_logs
WHERE action = $1
  AND ($2::timestamptz IS NULL OR occurred_at >= $2)
  AND ($3::timestamptz IS NULL OR occurred_at < $3)
  AND ($4::text IS NULL OR actor_id = $4)
  AND ($5::text IS NULL OR meta->>'reason' = $5)
ORDER BY occurred_at DESC, id DESC`

func (r *repository) Window(ctx context.Context, arg WindowParams) ([]Row, error) {
	rows, err := r.pool.Query(ctx, timelineQuery+` OFFSET $6 LIMIT $7`,
		arg.Action, arg.FromAt, arg.ToAt, arg.ActorID, arg.Reason, arg.OffsetRows, arg.LimitRows)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func (r *repository) All(ctx context.Context, arg WindowParams) ([]Row, error) {
	rows, err := r.pool.Query(ctx, timelineQuery,
		arg.Action, arg.FromAt, arg.ToAt, arg.ActorID, arg.Reason)
	if err != nil {
		return nil, err
	}
	return scanRows(rows)
}

func scanRows(rows pgx.Rows) ([]Row, error) {
	defer rows.Close()
	var out []Row
	for rows.Next() {
		var row Row
		if err := rows.Scan(&row.At, &row.ActorID, &row.EntityID, &row.Meta); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
