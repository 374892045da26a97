// Package serializer turns entities into their wire representations.
// Derived fields (full names, line totals, converted prices) are computed here
// at read time and are never stored.
package serializer

import (
	"encoding/json"
	"time"

	"luxe-backoffice/internal/model"
	"luxe-backoffice/internal/query"

	"github.com/shopspring/decimal"
)

// URLResolver maps a stored image key to a public URL.
type URLResolver interface {
	URL(key string) string
}

// Serializer renders entities using a fixed conversion rate and image URL resolver.
type Serializer struct {
	rate decimal.Decimal
	urls URLResolver
}

// New creates a Serializer. rate converts list prices into UGX.
func New(rate decimal.Decimal, urls URLResolver) *Serializer {
	return &Serializer{rate: rate, urls: urls}
}

// List is the paginated collection envelope.
type List[T any] struct {
	Data       []T        `json:"data"`
	Pagination query.Page `json:"pagination"`
}

// NewList renders items with fn and wraps them with page metadata.
func NewList[E any, T any](items []E, page query.Page, fn func(*E) T) List[T] {
	data := make([]T, 0, len(items))
	for i := range items {
		data = append(data, fn(&items[i]))
	}
	return List[T]{Data: data, Pagination: page}
}

// Money formats an amount with exactly two decimals.
func Money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func nullMoney(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := Money(d.Decimal)
	return &s
}

// Convert applies the rate and rounds to a whole unit.
func (s *Serializer) Convert(d decimal.Decimal) int64 {
	return d.Mul(s.rate).Round(0).IntPart()
}

// Category representation.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (s *Serializer) Category(c *model.Category) Category {
	return Category{
		ID:          c.ID,
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
	}
}

// ProductImage representation.
type ProductImage struct {
	ID        int64     `json:"id"`
	Image     string    `json:"image"`
	AltText   string    `json:"alt_text"`
	IsPrimary bool      `json:"is_primary"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Serializer) ProductImage(img *model.ProductImage) ProductImage {
	return ProductImage{
		ID:        img.ID,
		Image:     s.urls.URL(img.Image),
		AltText:   img.AltText,
		IsPrimary: img.IsPrimary,
		Order:     img.SortOrder,
		CreatedAt: img.CreatedAt,
	}
}

// Product representation. Money is rendered as fixed-point strings.
type Product struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	Brand            string          `json:"brand"`
	Category         int64           `json:"category"`
	CategoryName     string          `json:"category_name"`
	Price            string          `json:"price"`
	PriceUGX         int64           `json:"price_ugx"`
	DiscountPrice    *string         `json:"discount_price"`
	DiscountPriceUGX *int64          `json:"discount_price_ugx"`
	Description      string          `json:"description"`
	Specifications   json.RawMessage `json:"specifications"`
	Sizes            []string        `json:"sizes"`
	Colors           []string        `json:"colors"`
	Tags             []string        `json:"tags"`
	StockQuantity    int             `json:"stock_quantity"`
	IsActive         bool            `json:"is_active"`
	Featured         bool            `json:"featured"`
	Status           string          `json:"status"`
	Visibility       string          `json:"visibility"`
	VideoURL         string          `json:"video_url"`
	Weight           *string         `json:"weight"`
	Length           *string         `json:"length"`
	Width            *string         `json:"width"`
	Height           *string         `json:"height"`
	Images           []ProductImage  `json:"images"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (s *Serializer) Product(p *model.Product) Product {
	out := Product{
		ID:             p.ID,
		Name:           p.Name,
		Brand:          p.Brand,
		Category:       p.CategoryID,
		CategoryName:   p.CategoryName,
		Price:          Money(p.Price),
		PriceUGX:       s.Convert(p.Price),
		DiscountPrice:  nullMoney(p.DiscountPrice),
		Description:    p.Description,
		Specifications: p.Specifications,
		Sizes:          nonNil(p.Sizes),
		Colors:         nonNil(p.Colors),
		Tags:           nonNil(p.Tags),
		StockQuantity:  p.StockQuantity,
		IsActive:       p.IsActive,
		Featured:       p.Featured,
		Status:         string(p.Status),
		Visibility:     string(p.Visibility),
		VideoURL:       p.VideoURL,
		Weight:         nullMoney(p.Weight),
		Length:         nullMoney(p.Length),
		Width:          nullMoney(p.Width),
		Height:         nullMoney(p.Height),
		Images:         make([]ProductImage, 0, len(p.Images)),
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if p.DiscountPrice.Valid {
		ugx := s.Convert(p.DiscountPrice.Decimal)
		out.DiscountPriceUGX = &ugx
	}
	if len(out.Specifications) == 0 {
		out.Specifications = json.RawMessage("{}")
	}
	for i := range p.Images {
		out.Images = append(out.Images, s.ProductImage(&p.Images[i]))
	}
	return out
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

// Customer representation with the derived full name.
type Customer struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	ZipCode   string    `json:"zip_code"`
	Country   string    `json:"country"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Serializer) Customer(c *model.Customer) Customer {
	return Customer{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Phone:     c.Phone,
		Address:   c.Address,
		City:      c.City,
		State:     c.State,
		ZipCode:   c.ZipCode,
		Country:   c.Country,
		CreatedAt: c.CreatedAt,
	}
}

// OrderItem representation; TotalPrice is always quantity times price.
type OrderItem struct {
	ID          int64  `json:"id"`
	Product     int64  `json:"product"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Size        string `json:"size"`
	Color       string `json:"color"`
	TotalPrice  string `json:"total_price"`
}

func (s *Serializer) OrderItem(i *model.OrderItem) OrderItem {
	return OrderItem{
		ID:          i.ID,
		Product:     i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       Money(i.Price),
		Size:        i.Size,
		Color:       i.Color,
		TotalPrice:  Money(i.TotalPrice()),
	}
}

// Order representation. The customer is referenced by id with a derived name.
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"order_number"`
	Customer        int64       `json:"customer"`
	CustomerName    string      `json:"customer_name"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	TotalAmount     string      `json:"total_amount"`
	ShippingCost    string      `json:"shipping_cost"`
	TaxAmount       string      `json:"tax_amount"`
	ShippingAddress string      `json:"shipping_address"`
	ShippingCity    string      `json:"shipping_city"`
	ShippingState   string      `json:"shipping_state"`
	ShippingZipCode string      `json:"shipping_zip_code"`
	ShippingCountry string      `json:"shipping_country"`
	TrackingNumber  string      `json:"tracking_number"`
	ShippedAt       *time.Time  `json:"shipped_at"`
	DeliveredAt     *time.Time  `json:"delivered_at"`
	Notes           string      `json:"notes"`
	Items           []OrderItem `json:"items"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

func (s *Serializer) Order(o *model.Order) Order {
	out := Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		Customer:        o.CustomerID,
		CustomerName:    o.CustomerName(),
		Status:          string(o.Status),
		PaymentStatus:   string(o.PaymentStatus),
		TotalAmount:     Money(o.TotalAmount),
		ShippingCost:    Money(o.ShippingCost),
		TaxAmount:       Money(o.TaxAmount),
		ShippingAddress: o.ShippingAddress,
		ShippingCity:    o.ShippingCity,
		ShippingState:   o.ShippingState,
		ShippingZipCode: o.ShippingZipCode,
		ShippingCountry: o.ShippingCountry,
		TrackingNumber:  o.TrackingNumber,
		ShippedAt:       o.ShippedAt,
		DeliveredAt:     o.DeliveredAt,
		Notes:           o.Notes,
		Items:           make([]OrderItem, 0, len(o.Items)),
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for i := range o.Items {
		out.Items = append(out.Items, s.OrderItem(&o.Items[i]))
	}
	return out
}

// Delivery representation.
type Delivery struct {
	ID                int64      `json:"id"`
	Order             int64      `json:"order"`
	OrderNumber       string     `json:"order_number"`
	CustomerName      string     `json:"customer_name"`
	DeliveryService   string     `json:"delivery_service"`
	TrackingNumber    string     `json:"tracking_number"`
	Status            string     `json:"status"`
	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	ActualDelivery    *time.Time `json:"actual_delivery"`
	DeliveryNotes     string     `json:"delivery_notes"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (s *Serializer) Delivery(d *model.Delivery) Delivery {
	return Delivery{
		ID:                d.ID,
		Order:             d.OrderID,
		OrderNumber:       d.OrderNumber,
		CustomerName:      d.CustomerName(),
		DeliveryService:   d.DeliveryService,
		TrackingNumber:    d.TrackingNumber,
		Status:            string(d.Status),
		EstimatedDelivery: d.EstimatedDelivery,
		ActualDelivery:    d.ActualDelivery,
		DeliveryNotes:     d.DeliveryNotes,
		CreatedAt:         d.CreatedAt,
		UpdatedAt:         d.UpdatedAt,
	}
}
