package service

import (
	"context"
	"io"
	"net/url"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"
)

// CategoryService defines operations for category management.
type CategoryService interface {
	List(ctx context.Context, params url.Values) ([]model.Category, query.Page, error)
	Get(ctx context.Context, id int64) (*model.Category, error)
	Create(ctx context.Context, in *model.CategoryInput) (*model.Category, error)

	// Update applies in to an existing category. A full update also requires every mandatory field.
	Update(ctx context.Context, id int64, in *model.CategoryInput, partial bool) (*model.Category, error)

	Delete(ctx context.Context, id int64) error
}

// ProductService defines operations for product management.
type ProductService interface {
	// List returns products passing the public visibility policy.
	List(ctx context.Context, params url.Values) ([]model.Product, query.Page, error)

	// Featured returns visible products flagged as featured.
	Featured(ctx context.Context, params url.Values) ([]model.Product, query.Page, error)

	// AdminList returns every product regardless of status or visibility.
	AdminList(ctx context.Context, params url.Values) ([]model.Product, query.Page, error)

	// Get retrieves a single product. Hidden products are NotFound unless includeHidden is set.
	Get(ctx context.Context, id int64, includeHidden bool) (*model.Product, error)

	Create(ctx context.Context, in *model.ProductInput) (*model.Product, error)
	Update(ctx context.Context, id int64, in *model.ProductInput, partial bool) (*model.Product, error)
	Delete(ctx context.Context, id int64) error

	Images(ctx context.Context, productID int64) ([]model.ProductImage, error)
	AddImage(ctx context.Context, productID int64, upload *ImageUpload) (*model.ProductImage, error)
	DeleteImage(ctx context.Context, productID, imageID int64) error
}

// ImageUpload is an image file received for a product.
type ImageUpload struct {
	Body        io.Reader
	Size        int64
	ContentType string
	AltText     string
	IsPrimary   bool
	Order       int
}

// CustomerService defines operations for customer management.
type CustomerService interface {
	List(ctx context.Context, params url.Values) ([]model.Customer, query.Page, error)
	Get(ctx context.Context, id int64) (*model.Customer, error)
	Create(ctx context.Context, in *model.CustomerInput) (*model.Customer, error)
	Update(ctx context.Context, id int64, in *model.CustomerInput, partial bool) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// OrderService defines operations for order management.
type OrderService interface {
	List(ctx context.Context, params url.Values) ([]model.Order, query.Page, error)

	// Get retrieves an order by its ID with all items.
	Get(ctx context.Context, id int64) (*model.Order, error)

	// Create places an order with its items, numbering and totalling it in one transaction.
	Create(ctx context.Context, in *model.OrderInput) (*model.Order, error)

	// Update changes order fields. Items are fixed once the order exists.
	Update(ctx context.Context, id int64, in *model.OrderInput, partial bool) (*model.Order, error)

	Delete(ctx context.Context, id int64) error
}

// DeliveryService defines operations for delivery management.
type DeliveryService interface {
	List(ctx context.Context, params url.Values) ([]model.Delivery, query.Page, error)
	Get(ctx context.Context, id int64) (*model.Delivery, error)
	Create(ctx context.Context, in *model.DeliveryInput) (*model.Delivery, error)
	Update(ctx context.Context, id int64, in *model.DeliveryInput, partial bool) (*model.Delivery, error)
	Delete(ctx context.Context, id int64) error
}
