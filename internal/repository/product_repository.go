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

const productColumns = `
	p.id, p.name, p.brand, p.category_id, c.name, p.price, p.discount_price,
	p.description, p.specifications, p.sizes, p.colors, p.tags, p.stock_quantity,
	p.is_active, p.featured, p.status, p.visibility, p.video_url,
	p.weight, p.length, p.width, p.height, p.created_at, p.updated_at`

const productFrom = ` FROM products p JOIN categories c ON c.id = p.category_id`

const imageColumns = `id, product_id, image, alt_text, is_primary, sort_order, created_at`

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	base
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{base{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}}
}

func scanProduct(row pgx.Row, p *model.Product) error {
	return row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.CategoryID, &p.CategoryName, &p.Price, &p.DiscountPrice,
		&p.Description, (*[]byte)(&p.Specifications), &p.Sizes, &p.Colors, &p.Tags, &p.StockQuantity,
		&p.IsActive, &p.Featured, &p.Status, &p.Visibility, &p.VideoURL,
		&p.Weight, &p.Length, &p.Width, &p.Height, &p.CreatedAt, &p.UpdatedAt,
	)
}

func scanImage(row pgx.Row, img *model.ProductImage) error {
	return row.Scan(&img.ID, &img.ProductID, &img.Image, &img.AltText, &img.IsPrimary, &img.SortOrder, &img.CreatedAt)
}

// List retrieves one page of products matching q, images included.
func (r *productRepository) List(ctx context.Context, q *query.Query) ([]model.Product, int, error) {
	where := q.WhereClause()

	total, err := r.count(ctx, "SELECT COUNT(*)"+productFrom+where, q.Args()...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, err
	}

	page, args := q.PageClause()
	rows, err := r.pool.Query(ctx, "SELECT "+productColumns+productFrom+where+q.OrderClause()+page, args...)
	if err != nil {
		r.logger.Error().Err(err).
			Int("limit", q.Limit).
			Int("offset", q.Offset()).
			Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]model.Product, 0, q.Limit)
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, 0, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, 0, fmt.Errorf("error iterating products: %w", err)
	}

	if err := r.attachImages(ctx, products); err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// attachImages loads the images of all products in one query.
func (r *productRepository) attachImages(ctx context.Context, products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, len(products))
	index := make(map[int64]int, len(products))
	for i := range products {
		ids[i] = products[i].ID
		index[products[i].ID] = i
		products[i].Images = []model.ProductImage{}
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+imageColumns+" FROM product_images WHERE product_id = ANY($1) ORDER BY sort_order, created_at, id", ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query product images")
		return fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var img model.ProductImage
		if err := scanImage(rows, &img); err != nil {
			return fmt.Errorf("failed to scan product image: %w", err)
		}
		i := index[img.ProductID]
		products[i].Images = append(products[i].Images, img)
	}
	return rows.Err()
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	err := scanProduct(r.pool.QueryRow(ctx, "SELECT "+productColumns+productFrom+" WHERE p.id = $1", id), &p)
	if err != nil {
		r.logger.Debug().Err(err).Int64("product_id", id).Msg("failed to load product")
		return nil, notFound(err, "product", id)
	}

	products := []model.Product{p}
	if err := r.attachImages(ctx, products); err != nil {
		return nil, err
	}
	return &products[0], nil
}

func (r *productRepository) LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error) {
	var p model.Product
	err := scanProduct(tx.QueryRow(ctx,
		"SELECT "+productColumns+productFrom+" WHERE p.id = $1 FOR UPDATE OF p", id), &p)
	if err != nil {
		return nil, notFound(err, "product", id)
	}
	return &p, nil
}

// GetByIDs retrieves multiple products by their IDs inside tx.
// Missing ids are simply absent from the result.
func (r *productRepository) GetByIDs(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Product, error) {
	products := make(map[int64]model.Product, len(ids))
	if len(ids) == 0 {
		return products, nil
	}

	rows, err := tx.Query(ctx, "SELECT "+productColumns+productFrom+" WHERE p.id = ANY($1)", ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by ids")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

func (r *productRepository) Create(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO products (
			name, brand, category_id, price, discount_price, description, specifications,
			sizes, colors, tags, stock_quantity, is_active, featured, status, visibility,
			video_url, weight, length, width, height
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, created_at, updated_at
	`,
		p.Name, p.Brand, p.CategoryID, p.Price, p.DiscountPrice, p.Description, []byte(p.Specifications),
		p.Sizes, p.Colors, p.Tags, p.StockQuantity, p.IsActive, p.Featured, string(p.Status), string(p.Visibility),
		p.VideoURL, p.Weight, p.Length, p.Width, p.Height,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		r.logger.Debug().Err(err).Str("name", p.Name).Msg("failed to create product")
		return wrapWrite(err, "create product")
	}

	r.logger.Debug().Int64("product_id", p.ID).Msg("product created successfully")
	return nil
}

func (r *productRepository) Update(ctx context.Context, tx pgx.Tx, p *model.Product) error {
	err := tx.QueryRow(ctx, `
		UPDATE products SET
			name = $2, brand = $3, category_id = $4, price = $5, discount_price = $6,
			description = $7, specifications = $8, sizes = $9, colors = $10, tags = $11,
			stock_quantity = $12, is_active = $13, featured = $14, status = $15, visibility = $16,
			video_url = $17, weight = $18, length = $19, width = $20, height = $21,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`,
		p.ID, p.Name, p.Brand, p.CategoryID, p.Price, p.DiscountPrice,
		p.Description, []byte(p.Specifications), p.Sizes, p.Colors, p.Tags,
		p.StockQuantity, p.IsActive, p.Featured, string(p.Status), string(p.Visibility),
		p.VideoURL, p.Weight, p.Length, p.Width, p.Height,
	).Scan(&p.UpdatedAt)
	if err != nil {
		r.logger.Debug().Err(err).Int64("product_id", p.ID).Msg("failed to update product")
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NotFound("product", p.ID)
		}
		return wrapWrite(err, "update product")
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, tx pgx.Tx, id int64) error {
	return execDelete(ctx, tx, "products", "product", id)
}

// ListImages retrieves a product's images in display order.
func (r *productRepository) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	rows, err := r.pool.Query(ctx,
		"SELECT "+imageColumns+" FROM product_images WHERE product_id = $1 ORDER BY sort_order, created_at, id", productID)
	if err != nil {
		r.logger.Error().Err(err).Int64("product_id", productID).Msg("failed to query product images")
		return nil, fmt.Errorf("failed to query product images: %w", err)
	}
	defer rows.Close()

	images := []model.ProductImage{}
	for rows.Next() {
		var img model.ProductImage
		if err := scanImage(rows, &img); err != nil {
			return nil, fmt.Errorf("failed to scan product image: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating product images: %w", err)
	}
	return images, nil
}

func (r *productRepository) CreateImage(ctx context.Context, tx pgx.Tx, img *model.ProductImage) error {
	err := tx.QueryRow(ctx, `
		INSERT INTO product_images (product_id, image, alt_text, is_primary, sort_order)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`, img.ProductID, img.Image, img.AltText, img.IsPrimary, img.SortOrder).Scan(&img.ID, &img.CreatedAt)
	if err != nil {
		r.logger.Debug().Err(err).Int64("product_id", img.ProductID).Msg("failed to create product image")
		return wrapWrite(err, "create product image")
	}
	return nil
}

// DeleteImage removes one image of a product and returns its storage key.
func (r *productRepository) DeleteImage(ctx context.Context, tx pgx.Tx, productID, imageID int64) (string, error) {
	var key string
	err := tx.QueryRow(ctx,
		"DELETE FROM product_images WHERE id = $1 AND product_id = $2 RETURNING image",
		imageID, productID).Scan(&key)
	if err != nil {
		return "", notFound(err, "image", imageID)
	}
	return key, nil
}
