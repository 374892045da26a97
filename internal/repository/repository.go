package repository

import (
	"context"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// Transactor starts database transactions. Services own the commit.
type Transactor interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)
}

// CategoryRepository defines data access for categories.
type CategoryRepository interface {
	Transactor

	// List returns one page of categories and the total match count.
	List(ctx context.Context, q *query.Query) ([]model.Category, int, error)

	// GetByID returns a category or a NotFound error.
	GetByID(ctx context.Context, id int64) (*model.Category, error)

	// LockByID reads a category with a row lock inside tx.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Category, error)

	Create(ctx context.Context, tx pgx.Tx, c *model.Category) error
	Update(ctx context.Context, tx pgx.Tx, c *model.Category) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

// ProductRepository defines data access for products and their images.
type ProductRepository interface {
	Transactor

	// List returns one page of products, with images, and the total match count.
	List(ctx context.Context, q *query.Query) ([]model.Product, int, error)

	// GetByID returns a product with its category name and images, or NotFound.
	GetByID(ctx context.Context, id int64) (*model.Product, error)

	// LockByID reads a product with a row lock inside tx.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Product, error)

	// GetByIDs returns the products with the given ids inside tx, keyed by id.
	GetByIDs(ctx context.Context, tx pgx.Tx, ids []int64) (map[int64]model.Product, error)

	Create(ctx context.Context, tx pgx.Tx, p *model.Product) error
	Update(ctx context.Context, tx pgx.Tx, p *model.Product) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error

	// ListImages returns a product's images in display order.
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)

	CreateImage(ctx context.Context, tx pgx.Tx, img *model.ProductImage) error

	// DeleteImage removes an image and returns its storage key.
	DeleteImage(ctx context.Context, tx pgx.Tx, productID, imageID int64) (string, error)
}

// CustomerRepository defines data access for customers.
type CustomerRepository interface {
	Transactor

	List(ctx context.Context, q *query.Query) ([]model.Customer, int, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Customer, error)
	Create(ctx context.Context, tx pgx.Tx, c *model.Customer) error
	Update(ctx context.Context, tx pgx.Tx, c *model.Customer) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

// OrderRepository defines data access for orders and their items.
type OrderRepository interface {
	Transactor

	// List returns one page of orders, with items, and the total match count.
	List(ctx context.Context, q *query.Query) ([]model.Order, int, error)

	// GetByID retrieves an order by its ID along with its items.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// LockByID reads an order, without items, with a row lock inside tx.
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Order, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) error

	// CreateOrderItems inserts multiple order items within the provided transaction.
	CreateOrderItems(ctx context.Context, tx pgx.Tx, items []model.OrderItem) error

	// ItemsTotal sums quantity times price for an order's items inside tx.
	ItemsTotal(ctx context.Context, tx pgx.Tx, orderID int64) (decimal.Decimal, error)

	UpdateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}

// DeliveryRepository defines data access for deliveries.
type DeliveryRepository interface {
	Transactor

	List(ctx context.Context, q *query.Query) ([]model.Delivery, int, error)
	GetByID(ctx context.Context, id int64) (*model.Delivery, error)
	LockByID(ctx context.Context, tx pgx.Tx, id int64) (*model.Delivery, error)
	Create(ctx context.Context, tx pgx.Tx, d *model.Delivery) error
	Update(ctx context.Context, tx pgx.Tx, d *model.Delivery) error
	Delete(ctx context.Context, tx pgx.Tx, id int64) error
}
