package users

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courierdesk/courierdesk/internal/access"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const selectUsers = `SELECT id::text, COALESCE(display_name, ''), role, COALESCE(has_own_fleet, false),
	COALESCE(partner_subtype, ''), COALESCE(status, 'active'), created_at, updated_at
FROM profiles`

// ListUsers returns profiles ordered by display name.
func (r *Repository) ListUsers(ctx context.Context, filter ListFilter) ([]User, error) {
	rows, err := r.pool.Query(ctx, selectUsers+` WHERE ($1 = '' OR role = $1) ORDER BY display_name, id`, string(filter.Role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// GetUser loads one profile.
func (r *Repository) GetUser(ctx context.Context, id string) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, selectUsers+` WHERE id::text = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return user, err
}

// UpdateUser writes the access fields of a profile.
func (r *Repository) UpdateUser(ctx context.Context, u User) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles
SET role = $2, has_own_fleet = $3, partner_subtype = NULLIF($4, ''), status = $5, updated_at = $6
WHERE id::text = $1`, u.ID, string(u.Role), u.HasOwnFleet, string(u.PartnerSubtype), string(u.Status), u.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanUser(row pgx.Row) (User, error) {
	var u User
	var role, subtype, status string
	if err := row.Scan(&u.ID, &u.DisplayName, &role, &u.HasOwnFleet, &subtype, &status, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return User{}, err
	}
	// Unknown stored roles are shown raw so an administrator can repair them.
	u.Role = access.Role(role)
	if parsed, err := access.ParseRole(role); err == nil {
		u.Role = parsed
	}
	u.PartnerSubtype = access.PartnerSubtype(subtype)
	u.Status = access.Status(status)
	return u, nil
}
