package fleet

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository defines the interface for directory persistence.
type Repository interface {
	ListDrivers(ctx context.Context, ownerID string) ([]Driver, error)
	GetDriver(ctx context.Context, id string) (*Driver, error)
	InsertDriver(ctx context.Context, d Driver) error
	ListPartners(ctx context.Context) ([]Partner, error)
	GetPartner(ctx context.Context, id string) (*Partner, error)
	ListCourierOptions(ctx context.Context) ([]CourierOption, error)
}

type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

// ListDrivers returns drivers for the owner, or every driver when ownerID
// is empty.
func (r *repository) ListDrivers(ctx context.Context, ownerID string) ([]Driver, error) {
	query := `
		SELECT id, owner_id, name, phone, active, created_at
		FROM fleet_drivers
		WHERE ($1 = '' OR owner_id = $1)
		ORDER BY name, id
	`
	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []Driver
	for rows.Next() {
		var d Driver
		if err := rows.Scan(&d.ID, &d.OwnerID, &d.Name, &d.Phone, &d.Active, &d.CreatedAt); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// GetDriver retrieves a driver by ID.
func (r *repository) GetDriver(ctx context.Context, id string) (*Driver, error) {
	query := `
		SELECT id, owner_id, name, phone, active, created_at
		FROM fleet_drivers
		WHERE id = $1
	`
	var d Driver
	err := r.pool.QueryRow(ctx, query, id).Scan(&d.ID, &d.OwnerID, &d.Name, &d.Phone, &d.Active, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDriverNotFound
		}
		return nil, err
	}
	return &d, nil
}

// InsertDriver creates a driver row.
func (r *repository) InsertDriver(ctx context.Context, d Driver) error {
	query := `
		INSERT INTO fleet_drivers (id, owner_id, name, phone, active, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query, d.ID, d.OwnerID, d.Name, d.Phone, d.Active, d.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDriverExists
	}
	return err
}

const partnerColumns = `
		SELECT p.id::text, COALESCE(p.display_name, ''), COALESCE(p.has_own_fleet, false),
		       COALESCE(p.partner_subtype, ''), COALESCE(p.status, 'active'),
		       (SELECT COUNT(*) FROM fleet_drivers d WHERE d.owner_id = p.id::text)
		FROM profiles p
		WHERE p.role = 'partner'`

func scanPartner(row pgx.Row) (*Partner, error) {
	var p Partner
	err := row.Scan(&p.ID, &p.DisplayName, &p.HasOwnFleet, &p.PartnerSubtype, &p.Status, &p.DriverCount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return &p, nil
}

// ListPartners returns every partner profile.
func (r *repository) ListPartners(ctx context.Context) ([]Partner, error) {
	rows, err := r.pool.Query(ctx, partnerColumns+` ORDER BY p.display_name, p.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []Partner
	for rows.Next() {
		p, err := scanPartner(rows)
		if err != nil {
			return nil, err
		}
		partners = append(partners, *p)
	}
	return partners, rows.Err()
}

// GetPartner retrieves one partner profile.
func (r *repository) GetPartner(ctx context.Context, id string) (*Partner, error) {
	return scanPartner(r.pool.QueryRow(ctx, partnerColumns+` AND p.id::text = $1`, id))
}

// ListCourierOptions returns active independent couriers.
func (r *repository) ListCourierOptions(ctx context.Context) ([]CourierOption, error) {
	query := `
		SELECT id::text, COALESCE(display_name, '')
		FROM profiles
		WHERE role = 'driver' AND partner_subtype = 'courier'
		  AND COALESCE(status, 'active') = 'active'
		ORDER BY display_name, id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CourierOption
	for rows.Next() {
		var c CourierOption
		if err := rows.Scan(&c.ID, &c.DisplayName); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
