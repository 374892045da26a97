package repository

import (
	"context"
	"errors"
	"fmt"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const orderColumns = `
	o.id, o.order_number, o.customer_id, cu.first_name, cu.last_name, o.status, o.payment_status,
	o.total_amount, o.shipping_cost, o.tax_amount, o.shipping_address, o.shipping_city,
	o.shipping_state, o.shipping_zip_code, o.shipping_country, o.tracking_number,
	o.shipped_at, o.delivered_at, o.notes, o.created_at, o.updated_at`

const orderFrom = ` FROM orders o JOIN customers cu ON cu.id = o.customer_id`

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	base
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{base{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}}
}

func scanOrder(row pgx.Row, o *model.Order) error {
	return row.Scan(
		&o.ID, &o.OrderNumber, &o.CustomerID, &o.CustomerFirst, &o.CustomerLast, &o.Status, &o.PaymentStatus,
		&o.TotalAmount, &o.ShippingCost, &o.TaxAmount, &o.ShippingAddress, &o.ShippingCity,
		&o.ShippingState, &o.ShippingZipCode, &o.ShippingCountry, &o.TrackingNumber,
		&o.ShippedAt, &o.DeliveredAt, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
}

// List retrieves one page of orders matching q, items included.
func (r *orderRepository) List(ctx context.Context, q *query.Query) ([]model.Order, int, error) {
	where := q.WhereClause()

	total, err := r.count(ctx, "SELECT COUNT(*)"+orderFrom+where, q.Args()...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return nil, 0, err
	}

	page, args := q.PageClause()
	rows, err := r.pool.Query(ctx, "SELECT "+orderColumns+orderFrom+where+q.OrderClause()+page, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, 0, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := make([]model.Order, 0, q.Limit)
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, 0, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.attachItems(ctx, orders); err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// attachItems loads the items of all orders in one query.
func (r *orderRepository) attachItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]int64, len(orders))
	index := make(map[int64]int, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = i
		orders[i].Items = []model.OrderItem{}
	}

	rows, err := r.pool.Query(ctx, `
		SELECT oi.id, oi.order_id, oi.product_id, p.name, oi.quantity, oi.price, oi.size, oi.color
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.id
	`, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.Price, &item.Size, &item.Color)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		i := index[item.OrderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID along with its items.
func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	var o model.Order
	err := scanOrder(r.pool.QueryRow(ctx, "SELECT "+orderColumns+orderFrom+" WHERE o.id = $1", id), &o)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("order_id", id).Msg("order not found")
			return nil, model.NotFound("order", id)
		}
		r.logger.Error().Err(err).Int64("order_id", id).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{o}
	if err := r.attachItems(ctx, orders); err != nil {
		return nil, err
	}
	return &orders[0], nil
}

func (r *orderRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error) {
	var o model.Order
	err := scanOrder(tx.QueryRow(ctx,
		"SELECT "+orderColumns+orderFrom+" WHERE o.id = $1 FOR UPDATE OF o", id), &o)
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

// CreateOrder inserts a new order within the provided transaction.
func (r *orderRepository) CreateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO orders (
			order_number, customer_id, status, payment_status, total_amount, shipping_cost,
			tax_amount, shipping_address, shipping_city, shipping_state, shipping_zip_code,
			shipping_country, tracking_number, shipped_at, delivered_at, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`,
		o.OrderNumber, o.CustomerID, string(o.Status), string(o.PaymentStatus), o.TotalAmount, o.ShippingCost,
		o.TaxAmount, o.ShippingAddress, o.ShippingCity, o.ShippingState, o.ShippingZipCode,
		o.ShippingCountry, o.TrackingNumber, o.ShippedAt, o.DeliveredAt, o.Notes,
	).Scan(&o.ID, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("order_number", o.OrderNumber).
			Msg("failed to create order")
		return wrapWrite(err, "create order")
	}

	r.logger.Debug().
		Int64("order_id", o.ID).
		Str("order_number", o.OrderNumber).
		Msg("order created successfully")

	return nil
}

// CreateOrderItems inserts multiple order items within the provided transaction.
func (r *orderRepository) CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO order_items (order_id, product_id, quantity, price, size, color)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	batch := &pgx.Batch{}
	for _, item := range items {
		batch.Queue(query, item.OrderID, item.ProductID, item.Quantity, item.Price, item.Size, item.Color)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := range items {
		if err := results.QueryRow().Scan(&items[i].ID); err != nil {
			r.logger.Error().
				Err(err).
				Int64("order_id", items[i].OrderID).
				Int64("product_id", items[i].ProductID).
				Msg("failed to create order item")
			return wrapWrite(err, "create order item")
		}
	}

	r.logger.Debug().
		Int("count", len(items)).
		Msg("order items created successfully")

	return nil
}

// ItemsTotal sums quantity times price for an order's items inside tx.
func (r *orderRepository) ItemsTotal(ctx context.Context, tx pgx.Tx, orderID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := tx.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity * price), 0) FROM order_items WHERE order_id = $1", orderID,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum order items: %w", err)
	}
	return total, nil
}

func (r *orderRepository) UpdateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	err := tx.QueryRow(ctx, `
		UPDATE orders SET
			customer_id = $2, status = $3, payment_status = $4, total_amount = $5,
			shipping_cost = $6, tax_amount = $7, shipping_address = $8, shipping_city = $9,
			shipping_state = $10, shipping_zip_code = $11, shipping_country = $12,
			tracking_number = $13, shipped_at = $14, delivered_at = $15, notes = $16,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		o.ID, o.CustomerID, string(o.Status), string(o.PaymentStatus), o.TotalAmount,
		o.ShippingCost, o.TaxAmount, o.ShippingAddress, o.ShippingCity,
		o.ShippingState, o.ShippingZipCode, o.ShippingCountry,
		o.TrackingNumber, o.ShippedAt, o.DeliveredAt, o.Notes,
	).Scan(&o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NotFound("order", o.ID)
		}
		r.logger.Error().Err(err).Int64("order_id", o.ID).Msg("failed to update order")
		return wrapWrite(err, "update order")
	}
	return nil
}

// Delete removes an order; items and delivery go with it.
func (r *orderRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return execDelete(ctx, tx, "orders", "order", id)
}
