package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/soportia/helpdesk/internal/domain"
)

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	UpsertByPhone(ctx context.Context, phone, name string) (*domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

// UpsertByPhone creates the customer on first contact and refreshes the
// company name on every later one.
func (r *customerRepository) UpsertByPhone(ctx context.Context, phone, name string) (*domain.Customer, error) {
	const query = `
        INSERT INTO customers (phone, name)
        VALUES ($1,$2)
        ON CONFLICT (phone) DO UPDATE SET name = EXCLUDED.name, updated_at = NOW()
        RETURNING id, phone, name, created_at, updated_at`
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, phone, name).Scan(
		&customer.ID,
		&customer.Phone,
		&customer.Name,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const query = `
        SELECT id, phone, name, created_at, updated_at
        FROM customers WHERE id=$1`
	var customer domain.Customer
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&customer.ID,
		&customer.Phone,
		&customer.Name,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
