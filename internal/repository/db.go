package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"luxe-backoffice/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// PostgreSQL error codes translated into domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
	pgStringTooLong       = "22001"
	pgNumericOutOfRange   = "22003"
)

// constraintFields maps constraint names to the payload field a client should fix.
var constraintFields = map[string]string{
	"categories_slug_key":            "slug",
	"customers_email_key":            "email",
	"orders_order_number_key":        "order_number",
	"deliveries_order_id_key":        "order",
	"products_category_id_fkey":      "category",
	"orders_customer_id_fkey":        "customer",
	"order_items_product_id_fkey":    "items",
	"order_items_order_id_fkey":      "order",
	"deliveries_order_id_fkey":       "order",
	"product_images_product_id_fkey": "product",
	"products_stock_quantity_check":  "stock_quantity",
	"products_price_check":           "price",
	"products_discount_price_check":  "discount_price",
	"order_items_quantity_check":     "items",
	"order_items_price_check":        "items",
	"orders_shipping_cost_check":     "shipping_cost",
	"orders_tax_amount_check":        "tax_amount",
	"products_status_check":          "status",
	"products_visibility_check":      "visibility",
}

// conflictMessages explain restricted deletes by foreign key.
var conflictMessages = map[string]string{
	"products_category_id_fkey":   "category is still referenced by products",
	"orders_customer_id_fkey":     "customer still has orders",
	"order_items_product_id_fkey": "product is referenced by order items",
}

// base carries what every pgx-backed repository shares.
type base struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// BeginTx starts a new database transaction.
func (r *base) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// count runs a COUNT(*) query.
func (r *base) count(ctx context.Context, sql string, args ...interface{}) (int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count rows: %w", err)
	}
	return total, nil
}

// notFound turns pgx.ErrNoRows into a NotFound domain error.
func notFound(err error, entity string, id int64) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return model.NotFound(entity, id)
	}
	return err
}

// translateWriteError maps constraint violations raised by INSERT or UPDATE to validation errors.
// It returns nil for any other error.
func translateWriteError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	field := constraintFields[pgErr.ConstraintName]
	if field == "" {
		field = pgErr.ColumnName
	}
	if field == "" {
		field = "non_field_errors"
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return model.FieldError(field, "a record with this value already exists")
	case pgForeignKeyViolation:
		return model.FieldError(field, "refers to a record that does not exist")
	case pgCheckViolation, pgNotNullViolation:
		return model.FieldError(field, "invalid value")
	case pgStringTooLong, pgNumericOutOfRange:
		return model.FieldError(field, strings.ToLower(pgErr.Message))
	}
	return nil
}

// translateDeleteError maps foreign key violations raised by DELETE to conflicts.
// It returns nil for any other error.
func translateDeleteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
		msg, ok := conflictMessages[pgErr.ConstraintName]
		if !ok {
			msg = "record is still referenced by other records"
		}
		return model.Conflict(msg)
	}
	return nil
}

// execDelete deletes one row by id, returning NotFound when nothing matched.
func execDelete(ctx context.Context, tx pgx.Tx, table, entity string, id int64) error {
	tag, err := tx.Exec(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	if err != nil {
		if mapped := translateDeleteError(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	if tag.RowsAffected() == 0 {
		return model.NotFound(entity, id)
	}
	return nil
}

// wrapWrite translates constraint errors or wraps anything else with context.
func wrapWrite(err error, op string) error {
	if mapped := translateWriteError(err); mapped != nil {
		return mapped
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}
