package actors

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed profile lookups.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const findProfileSQL = `SELECT id::text, role, has_own_fleet, partner_subtype, status
FROM profiles
WHERE id::text = $1`

// FindByID loads the raw profile row for an actor.
func (r *Repository) FindByID(ctx context.Context, id string) (Record, error) {
	var rec Record
	err := r.pool.QueryRow(ctx, findProfileSQL, id).Scan(
		&rec.ID,
		&rec.Role,
		&rec.HasOwnFleet,
		&rec.PartnerSubtype,
		&rec.Status,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}
