package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/courierdesk/courierdesk/internal/platform/db"
)

// Repository defines the interface for order persistence.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Order, error)
	GetByTrackingCode(ctx context.Context, code string) (*Order, error)
	List(ctx context.Context, filter ListFilter) ([]Order, int, error)

	// Write operations (transactional)
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
}

// TxRepository exposes transactional write operations.
type TxRepository interface {
	Insert(ctx context.Context, o Order) error
	GetForUpdate(ctx context.Context, id string) (*Order, error)
	Update(ctx context.Context, o Order) error
}

// repository implements Repository using pgxpool.
type repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new repository.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

type txRepository struct {
	tx pgx.Tx
}

const selectColumns = `
		SELECT id, tracking_code, COALESCE(customer_id, ''), COALESCE(partner_id, ''),
		       COALESCE(carrier_id, ''), COALESCE(driver_id, ''), status,
		       pickup_address, dropoff_address, price_cents, created_at, updated_at
		FROM orders`

func scanOrder(row pgx.Row) (*Order, error) {
	var o Order
	err := row.Scan(
		&o.ID, &o.TrackingCode, &o.CustomerID, &o.PartnerID,
		&o.CarrierID, &o.DriverID, &o.Status,
		&o.PickupAddress, &o.DropoffAddress, &o.PriceCents, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// WithTx runs fn inside a read-committed transaction.
func (r *repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepository{tx: tx})
	})
}

// GetByID retrieves an order by ID.
func (r *repository) GetByID(ctx context.Context, id string) (*Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
}

// GetByTrackingCode retrieves an order by its public tracking code.
func (r *repository) GetByTrackingCode(ctx context.Context, code string) (*Order, error) {
	return scanOrder(r.pool.QueryRow(ctx, selectColumns+` WHERE tracking_code = $1`, code))
}

// List returns orders inside the filter scope, newest first, together with
// the total count before pagination.
func (r *repository) List(ctx context.Context, filter ListFilter) ([]Order, int, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if !filter.Scope.All {
		switch filter.Scope.Field {
		case OwnerCustomer, OwnerPartner, OwnerDriver:
		default:
			return nil, 0, fmt.Errorf("orders: unsupported scope field %q", filter.Scope.Field)
		}
		conditions = append(conditions, fmt.Sprintf("%s = $%d", filter.Scope.Field, argPos))
		args = append(args, filter.Scope.OwnerID)
		argPos++
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filter.Status)
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	query := selectColumns + where + fmt.Sprintf(" ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d", argPos, argPos+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *o)
	}
	return out, total, rows.Err()
}

// Insert creates a new order row.
func (t *txRepository) Insert(ctx context.Context, o Order) error {
	query := `
		INSERT INTO orders (
			id, tracking_code, customer_id, partner_id, carrier_id, driver_id,
			status, pickup_address, dropoff_address, price_cents, created_at, updated_at
		) VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''),
			$7, $8, $9, $10, $11, $12)
	`
	_, err := t.tx.Exec(ctx, query,
		o.ID, o.TrackingCode, o.CustomerID, o.PartnerID, o.CarrierID, o.DriverID,
		o.Status, o.PickupAddress, o.DropoffAddress, o.PriceCents, o.CreatedAt, o.UpdatedAt,
	)
	return err
}

// GetForUpdate loads and row-locks an order for the rest of the transaction.
func (t *txRepository) GetForUpdate(ctx context.Context, id string) (*Order, error) {
	return scanOrder(t.tx.QueryRow(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id))
}

// Update writes the mutable order fields back.
func (t *txRepository) Update(ctx context.Context, o Order) error {
	query := `
		UPDATE orders
		SET carrier_id = NULLIF($2, ''), driver_id = NULLIF($3, ''), status = $4,
		    pickup_address = $5, dropoff_address = $6, price_cents = $7, updated_at = $8
		WHERE id = $1
	`
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = time.Now().UTC()
	}
	cmdTag, err := t.tx.Exec(ctx, query,
		o.ID, o.CarrierID, o.DriverID, o.Status,
		o.PickupAddress, o.DropoffAddress, o.PriceCents, o.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
