package admin

import "luxe-backoffice/internal/serializer"

// Entity names used as registry keys.
const (
	CategoryModel = "category"
	ProductModel  = "product"
	CustomerModel = "customer"
	OrderModel    = "order"
	DeliveryModel = "delivery"
)

// DefaultRegistry declares the console for every entity.
func DefaultRegistry() (*Registry, error) {
	return NewRegistry(
		&ModelAdmin{
			Name:           CategoryModel,
			ListDisplay:    []string{"name", "slug", "created_at"},
			SearchFields:   []string{"name"},
			Representation: serializer.Category{},
		},
		&ModelAdmin{
			Name:         ProductModel,
			ListDisplay:  []string{"name", "brand", "category", "price", "stock_quantity", "is_active", "featured", "created_at"},
			ListFilter:   []string{"category", "brand", "is_active", "featured", "created_at"},
			SearchFields: []string{"name", "brand", "description"},
			ListEditable: []string{"price", "stock_quantity", "is_active", "featured"},
			Fieldsets: []Fieldset{
				{Name: "Basic Information", Fields: []string{"name", "brand", "category", "price", "description"}},
				{Name: "Product Details", Fields: []string{"specifications", "sizes", "colors", "stock_quantity"}},
				{Name: "Status", Fields: []string{"status", "visibility", "is_active", "featured"}},
			},
			Inlines: []Inline{
				{Model: "product_image", Fields: []string{"image", "alt_text", "is_primary", "order"}, Extra: 1},
			},
			Representation: serializer.Product{},
		},
		&ModelAdmin{
			Name:           CustomerModel,
			ListDisplay:    []string{"full_name", "email", "phone", "city", "state", "created_at"},
			ListFilter:     []string{"state", "country", "created_at"},
			SearchFields:   []string{"first_name", "last_name", "email", "phone"},
			ReadonlyFields: []string{"created_at"},
			Representation: serializer.Customer{},
		},
		&ModelAdmin{
			Name:           OrderModel,
			ListDisplay:    []string{"order_number", "customer", "status", "payment_status", "total_amount", "created_at"},
			ListFilter:     []string{"status", "payment_status", "created_at", "shipped_at"},
			SearchFields:   []string{"order_number", "customer__first_name", "customer__last_name", "customer__email"},
			ReadonlyFields: []string{"order_number", "total_amount", "created_at", "updated_at"},
			Fieldsets: []Fieldset{
				{Name: "Order Information", Fields: []string{"order_number", "customer", "status", "payment_status"}},
				{Name: "Financial Details", Fields: []string{"total_amount", "shipping_cost", "tax_amount"}},
				{Name: "Shipping Information", Fields: []string{"shipping_address", "shipping_city", "shipping_state", "shipping_zip_code", "shipping_country"}},
				{Name: "Tracking", Fields: []string{"tracking_number", "shipped_at", "delivered_at"}},
				{Name: "Additional Info", Fields: []string{"notes", "created_at", "updated_at"}},
			},
			Inlines: []Inline{
				{Model: "order_item", Fields: []string{"product", "quantity", "price", "size", "color", "total_price"}, ReadonlyFields: []string{"total_price"}},
			},
			Representation: serializer.Order{},
		},
		&ModelAdmin{
			Name:           DeliveryModel,
			ListDisplay:    []string{"tracking_number", "order", "delivery_service", "status", "estimated_delivery", "actual_delivery"},
			ListFilter:     []string{"status", "delivery_service", "created_at"},
			SearchFields:   []string{"tracking_number", "order__order_number", "order__customer__email"},
			ReadonlyFields: []string{"created_at", "updated_at"},
			Fieldsets: []Fieldset{
				{Name: "Delivery Information", Fields: []string{"order", "delivery_service", "tracking_number", "status"}},
				{Name: "Timeline", Fields: []string{"estimated_delivery", "actual_delivery"}},
				{Name: "Notes", Fields: []string{"delivery_notes", "created_at", "updated_at"}},
			},
			Representation: serializer.Delivery{},
		},
	)
}
