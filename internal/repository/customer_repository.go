package repository

import (
	"context"
	"fmt"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const customerColumns = `cu.id, cu.email, cu.first_name, cu.last_name, cu.phone, cu.address,
	cu.city, cu.state, cu.zip_code, cu.country, cu.created_at`

type customerRepository struct {
	base
}

// NewCustomerRepository creates a new PostgreSQL-backed customer repository.
func NewCustomerRepository(pool *pgxpool.Pool, logger zerolog.Logger) CustomerRepository {
	return &customerRepository{base{
		pool:   pool,
		logger: logger.With().Str("repository", "customer").Logger(),
	}}
}

func scanCustomer(row pgx.Row, c *model.Customer) error {
	return row.Scan(&c.ID, &c.Email, &c.FirstName, &c.LastName, &c.Phone, &c.Address,
		&c.City, &c.State, &c.ZipCode, &c.Country, &c.CreatedAt)
}

func (r *customerRepository) List(ctx context.Context, q *query.Query) ([]model.Customer, int, error) {
	where := q.WhereClause()

	total, err := r.count(ctx, "SELECT COUNT(*) FROM customers cu"+where, q.Args()...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count customers")
		return nil, 0, err
	}

	page, args := q.PageClause()
	rows, err := r.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers cu"+where+q.OrderClause()+page, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query customers")
		return nil, 0, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := make([]model.Customer, 0, q.Limit)
	for rows.Next() {
		var c model.Customer
		if err := scanCustomer(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating customers: %w", err)
	}

	return customers, total, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var c model.Customer
	err := scanCustomer(r.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers cu WHERE cu.id = $1", id), &c)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &c, nil
}

func (r *customerRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Customer, error) {
	var c model.Customer
	err := scanCustomer(tx.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers cu WHERE cu.id = $1 FOR UPDATE", id), &c)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &c, nil
}

func (r *customerRepository) Create(ctx context.Context, tx pgx.Tx, c *model.Customer) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO customers (email, first_name, last_name, phone, address, city, state, zip_code, country)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`, c.Email, c.FirstName, c.LastName, c.Phone, c.Address, c.City, c.State, c.ZipCode, c.Country,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		r.logger.Debug().Err(err).Msg("failed to create customer")
		return wrapWrite(err, "create customer")
	}
	return nil
}

func (r *customerRepository) Update(ctx context.Context, tx pgx.Tx, c *model.Customer) error {
	tag, err := tx.Exec(ctx, `
		UPDATE customers SET
			email = $2, first_name = $3, last_name = $4, phone = $5, address = $6,
			city = $7, state = $8, zip_code = $9, country = $10
		WHERE id = $1
	`, c.ID, c.Email, c.FirstName, c.LastName, c.Phone, c.Address, c.City, c.State, c.ZipCode, c.Country)
	if err != nil {
		r.logger.Debug().Err(err).Int64("customer_id", c.ID).Msg("failed to update customer")
		return wrapWrite(err, "update customer")
	}
	if tag.RowsAffected() == 0 {
		return model.NotFound("customer", c.ID)
	}
	return nil
}

func (r *customerRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	err := execDelete(ctx, tx, "customers", "customer", id)
	if err != nil {
		r.logger.Debug().Err(err).Int64("customer_id", id).Msg("failed to delete customer")
	}
	return err
}
