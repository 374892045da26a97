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
)

const deliveryColumns = `
	d.id, d.order_id, o.order_number, cu.first_name, cu.last_name, d.delivery_service,
	d.tracking_number, d.status, d.estimated_delivery, d.actual_delivery, d.delivery_notes,
	d.created_at, d.updated_at`

const deliveryFrom = ` FROM deliveries d
	JOIN orders o ON o.id = d.order_id
	JOIN customers cu ON cu.id = o.customer_id`

type deliveryRepository struct {
	base
}

// NewDeliveryRepository creates a new PostgreSQL-backed delivery repository.
func NewDeliveryRepository(pool *pgxpool.Pool, logger zerolog.Logger) DeliveryRepository {
	return &deliveryRepository{base{
		pool:   pool,
		logger: logger.With().Str("repository", "delivery").Logger(),
	}}
}

func scanDelivery(row pgx.Row, d *model.Delivery) error {
	return row.Scan(
		&d.ID, &d.OrderID, &d.OrderNumber, &d.CustomerFirst, &d.CustomerLast, &d.DeliveryService,
		&d.TrackingNumber, &d.Status, &d.EstimatedDelivery, &d.ActualDelivery, &d.DeliveryNotes,
		&d.CreatedAt, &d.UpdatedAt,
	)
}

func (r *deliveryRepository) List(ctx context.Context, q *query.Query) ([]model.Delivery, int, error) {
	where := q.WhereClause()

	total, err := r.count(ctx, "SELECT COUNT(*)"+deliveryFrom+where, q.Args()...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count deliveries")
		return nil, 0, err
	}

	page, args := q.PageClause()
	rows, err := r.pool.Query(ctx, "SELECT "+deliveryColumns+deliveryFrom+where+q.OrderClause()+page, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query deliveries")
		return nil, 0, fmt.Errorf("failed to query deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := make([]model.Delivery, 0, q.Limit)
	for rows.Next() {
		var d model.Delivery
		if err := scanDelivery(rows, &d); err != nil {
			return nil, 0, fmt.Errorf("failed to scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating deliveries: %w", err)
	}

	return deliveries, total, nil
}

func (r *deliveryRepository) GetByID(ctx context.Context, id int64) (*model.Delivery, error) {
	var d model.Delivery
	err := scanDelivery(r.pool.QueryRow(ctx, "SELECT "+deliveryColumns+deliveryFrom+" WHERE d.id = $1", id), &d)
	if err != nil {
		return nil, notFound(err, "delivery", id)
	}
	return &d, nil
}

func (r *deliveryRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Delivery, error) {
	var d model.Delivery
	err := scanDelivery(tx.QueryRow(ctx,
		"SELECT "+deliveryColumns+deliveryFrom+" WHERE d.id = $1 FOR UPDATE OF d", id), &d)
	if err != nil {
		return nil, notFound(err, "delivery", id)
	}
	return &d, nil
}

func (r *deliveryRepository) Create(ctx context.Context, tx pgx.Tx, d *model.Delivery) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO deliveries (
			order_id, delivery_service, tracking_number, status,
			estimated_delivery, actual_delivery, delivery_notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`,
		d.OrderID, d.DeliveryService, d.TrackingNumber, string(d.Status),
		d.EstimatedDelivery, d.ActualDelivery, d.DeliveryNotes,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		r.logger.Debug().Err(err).Int64("order_id", d.OrderID).Msg("failed to create delivery")
		return wrapWrite(err, "create delivery")
	}
	return nil
}

func (r *deliveryRepository) Update(ctx context.Context, tx pgx.Tx, d *model.Delivery) error {
	err := tx.QueryRow(ctx, `
		UPDATE deliveries SET
			order_id = $2, delivery_service = $3, tracking_number = $4, status = $5,
			estimated_delivery = $6, actual_delivery = $7, delivery_notes = $8,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		d.ID, d.OrderID, d.DeliveryService, d.TrackingNumber, string(d.Status),
		d.EstimatedDelivery, d.ActualDelivery, d.DeliveryNotes,
	).Scan(&d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NotFound("delivery", d.ID)
		}
		r.logger.Debug().Err(err).Int64("delivery_id", d.ID).Msg("failed to update delivery")
		return wrapWrite(err, "update delivery")
	}
	return nil
}

func (r *deliveryRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return execDelete(ctx, tx, "deliveries", "delivery", id)
}
