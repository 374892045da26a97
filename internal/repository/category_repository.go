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

const categoryColumns = `c.id, c.name, c.slug, c.description, c.created_at`

// categoryRepository implements CategoryRepository using PostgreSQL.
type categoryRepository struct {
	base
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{base{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}}
}

func scanCategory(row pgx.Row, c *model.Category) error {
	return row.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.CreatedAt)
}

func (r *categoryRepository) List(ctx context.Context, q *query.Query) ([]model.Category, int, error) {
	where := q.WhereClause()

	total, err := r.count(ctx, "SELECT COUNT(*) FROM categories c"+where, q.Args()...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count categories")
		return nil, 0, err
	}

	page, args := q.PageClause()
	rows, err := r.pool.Query(ctx,
		"SELECT "+categoryColumns+" FROM categories c"+where+q.OrderClause()+page, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, 0, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]model.Category, 0, q.Limit)
	for rows.Next() {
		var c model.Category
		if err := scanCategory(rows, &c); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, total, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*model.Category, error) {
	var c model.Category
	err := scanCategory(r.pool.QueryRow(ctx,
		"SELECT "+categoryColumns+" FROM categories c WHERE c.id = $1", id), &c)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return &c, nil
}

func (r *categoryRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Category, error) {
	var c model.Category
	err := scanCategory(tx.QueryRow(ctx,
		"SELECT "+categoryColumns+" FROM categories c WHERE c.id = $1 FOR UPDATE", id), &c)
	if err != nil {
		return nil, notFound(err, "category", id)
	}
	return &c, nil
}

func (r *categoryRepository) Create(ctx context.Context, tx pgx.Tx, c *model.Category) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO categories (name, slug, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, c.Name, c.Slug, c.Description).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		r.logger.Debug().Err(err).Str("slug", c.Slug).Msg("failed to create category")
		return wrapWrite(err, "create category")
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, tx pgx.Tx, c *model.Category) error {
	_, err := tx.Exec(ctx, `
		UPDATE categories SET name = $2, slug = $3, description = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Slug, c.Description)
	if err != nil {
		r.logger.Debug().Err(err).Int64("category_id", c.ID).Msg("failed to update category")
		return wrapWrite(err, "update category")
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return execDelete(ctx, tx, "categories", "category", id)
}
