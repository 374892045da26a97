package query

// Column expressions below assume the table aliases used by the repository
// queries: c (categories), p (products), cu (customers), o (orders), d (deliveries).

// Categories is the list spec for /categories.
var Categories = Spec{
	Search: []string{"c.name"},
	Ordering: map[string]string{
		"name":       "c.name",
		"created_at": "c.created_at",
	},
	DefaultOrdering: "-created_at",
	TieBreak:        "c.id DESC",
}

// Products is the list spec for /products and its custom actions.
var Products = Spec{
	Filters: []Filter{
		{Param: "category", Column: "p.category_id", Kind: Int},
		{Param: "brand", Column: "p.brand", Kind: String},
		{Param: "featured", Column: "p.featured", Kind: Bool},
		{Param: "status", Column: "p.status", Kind: String, Allowed: []string{"draft", "published", "hidden"}},
		{Param: "visibility", Column: "p.visibility", Kind: String, Allowed: []string{"public", "private"}},
	},
	Search: []string{"p.name", "p.description", "p.brand", "array_to_string(p.tags, ' ')"},
	Ordering: map[string]string{
		"price":          "p.price",
		"created_at":     "p.created_at",
		"name":           "p.name",
		"stock_quantity": "p.stock_quantity",
	},
	DefaultOrdering: "-created_at",
	TieBreak:        "p.id DESC",
}

// Customers is the list spec for /customers.
var Customers = Spec{
	Filters: []Filter{
		{Param: "state", Column: "cu.state", Kind: String},
		{Param: "country", Column: "cu.country", Kind: String},
	},
	Search: []string{"cu.first_name", "cu.last_name", "cu.email"},
	Ordering: map[string]string{
		"created_at": "cu.created_at",
		"last_name":  "cu.last_name",
		"email":      "cu.email",
	},
	DefaultOrdering: "-created_at",
	TieBreak:        "cu.id DESC",
}

// Orders is the list spec for /orders.
var Orders = Spec{
	Filters: []Filter{
		{Param: "status", Column: "o.status", Kind: String, Allowed: []string{"pending", "confirmed", "processing", "shipped", "delivered", "cancelled"}},
		{Param: "payment_status", Column: "o.payment_status", Kind: String, Allowed: []string{"pending", "paid", "failed", "refunded"}},
		{Param: "customer", Column: "o.customer_id", Kind: Int},
	},
	Search: []string{"o.order_number", "cu.first_name", "cu.last_name", "cu.email"},
	Ordering: map[string]string{
		"created_at":   "o.created_at",
		"total_amount": "o.total_amount",
		"order_number": "o.order_number",
	},
	DefaultOrdering: "-created_at",
	TieBreak:        "o.id DESC",
}

// Deliveries is the list spec for /deliveries.
var Deliveries = Spec{
	Filters: []Filter{
		{Param: "status", Column: "d.status", Kind: String, Allowed: []string{"pending", "in_transit", "out_for_delivery", "delivered", "failed", "returned"}},
		{Param: "delivery_service", Column: "d.delivery_service", Kind: String},
	},
	Search: []string{"d.tracking_number", "o.order_number"},
	Ordering: map[string]string{
		"created_at":         "d.created_at",
		"estimated_delivery": "d.estimated_delivery",
	},
	DefaultOrdering: "-created_at",
	TieBreak:        "d.id DESC",
}

// VisibleProducts restricts q to products that pass the public listing policy.
// It is ANDed with any client filters, so it cannot be widened by them.
func VisibleProducts(q *Query) {
	q.Where("p.status = ?", "published")
	q.Where("p.visibility = ?", "public")
	q.Where("p.is_active = ?", true)
}

// FeaturedProducts restricts q to featured products.
func FeaturedProducts(q *Query) {
	q.Where("p.featured = ?", true)
}
