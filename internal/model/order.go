package model

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

// Order statuses
const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// PaymentStatus is the settlement state of an order.
type PaymentStatus string

// Payment statuses
const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderProcessing, OrderCancelled},
	OrderConfirmed:  {OrderProcessing, OrderCancelled},
	OrderProcessing: {OrderShipped, OrderCancelled},
	OrderShipped:    {OrderDelivered},
}

// CanTransition reports whether an order may move from one status to another.
// Re-asserting the current status is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is a customer purchase.
type Order struct {
	ID              int64
	OrderNumber     string
	CustomerID      int64
	CustomerFirst   string
	CustomerLast    string
	Status          OrderStatus
	PaymentStatus   PaymentStatus
	TotalAmount     decimal.Decimal
	ShippingCost    decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingAddress string
	ShippingCity    string
	ShippingState   string
	ShippingZipCode string
	ShippingCountry string
	TrackingNumber  string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem
}

// CustomerName is the full name of the ordering customer.
func (o *Order) CustomerName() string {
	return FullName(o.CustomerFirst, o.CustomerLast)
}

// ItemsTotal sums the line totals.
func (o *Order) ItemsTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].TotalPrice())
	}
	return total
}

// RecalculateTotal sets TotalAmount to items plus shipping plus tax.
func (o *Order) RecalculateTotal() {
	o.TotalAmount = o.ItemsTotal().Add(o.ShippingCost).Add(o.TaxAmount)
}

// CheckTotal reports a total too wide for the total_amount column.
func (o *Order) CheckTotal() error {
	fields := map[string]string{}
	checkAmount(fields, "total_amount", o.TotalAmount, moneyDigits)
	if msg, ok := fields["total_amount"]; ok {
		return FieldError("total_amount", msg)
	}
	return nil
}

// MoveTo changes status, stamping shipped and delivered times on first entry.
func (o *Order) MoveTo(status OrderStatus, now time.Time) error {
	if !CanTransition(o.Status, status) {
		return FieldError("status", "cannot change status from "+string(o.Status)+" to "+string(status))
	}
	o.Status = status
	if status == OrderShipped && o.ShippedAt == nil {
		o.ShippedAt = &now
	}
	if status == OrderDelivered && o.DeliveredAt == nil {
		o.DeliveredAt = &now
	}
	return nil
}

// OrderItem is one line of an order. Price is the unit price at order time.
type OrderItem struct {
	ID          int64
	OrderID     int64
	ProductID   int64
	ProductName string
	Quantity    int
	Price       decimal.Decimal
	Size        string
	Color       string
}

// TotalPrice is quantity times unit price.
func (i *OrderItem) TotalPrice() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderItemInput is one line of an order create payload.
type OrderItemInput struct {
	Product  int64            `json:"product" validate:"required,gt=0"`
	Quantity int              `json:"quantity" validate:"required,gt=0"`
	Price    *decimal.Decimal `json:"price"`
	Size     string           `json:"size" validate:"max=20"`
	Color    string           `json:"color" validate:"max=50"`
}

// OrderInput is the write payload for orders. Items are only accepted on create.
type OrderInput struct {
	Customer        *int64           `json:"customer" validate:"omitempty,gt=0"`
	Status          *string          `json:"status" validate:"omitempty,oneof=pending confirmed processing shipped delivered cancelled"`
	PaymentStatus   *string          `json:"payment_status" validate:"omitempty,oneof=pending paid failed refunded"`
	ShippingCost    *decimal.Decimal `json:"shipping_cost"`
	TaxAmount       *decimal.Decimal `json:"tax_amount"`
	ShippingAddress *string          `json:"shipping_address"`
	ShippingCity    *string          `json:"shipping_city" validate:"omitempty,max=100"`
	ShippingState   *string          `json:"shipping_state" validate:"omitempty,max=100"`
	ShippingZipCode *string          `json:"shipping_zip_code" validate:"omitempty,max=20"`
	ShippingCountry *string          `json:"shipping_country" validate:"omitempty,max=100"`
	TrackingNumber  *string          `json:"tracking_number" validate:"omitempty,max=100"`
	Notes           *string          `json:"notes"`
	Items           []OrderItemInput `json:"items" validate:"omitempty,dive"`
}

// Missing lists required fields absent from a create.
func (in *OrderInput) Missing() []string {
	var missing []string
	if in.Customer == nil {
		missing = append(missing, "customer")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	return missing
}

// Check validates rules the struct tags cannot express.
func (in *OrderInput) Check() map[string]string {
	fields := map[string]string{}
	if in.ShippingCost != nil {
		checkAmount(fields, "shipping_cost", *in.ShippingCost, moneyDigits)
	}
	if in.TaxAmount != nil {
		checkAmount(fields, "tax_amount", *in.TaxAmount, moneyDigits)
	}
	for i, item := range in.Items {
		if item.Price != nil {
			checkAmount(fields, itemField(i, "price"), *item.Price, moneyDigits)
		}
	}
	return fields
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}

// Apply copies the provided scalar fields onto o. Status changes go through MoveTo.
func (in *OrderInput) Apply(o *Order) {
	if in.Customer != nil {
		o.CustomerID = *in.Customer
	}
	if in.PaymentStatus != nil {
		o.PaymentStatus = PaymentStatus(*in.PaymentStatus)
	}
	if in.ShippingCost != nil {
		o.ShippingCost = *in.ShippingCost
	}
	if in.TaxAmount != nil {
		o.TaxAmount = *in.TaxAmount
	}
	setString(&o.ShippingAddress, in.ShippingAddress)
	setString(&o.ShippingCity, in.ShippingCity)
	setString(&o.ShippingState, in.ShippingState)
	setString(&o.ShippingZipCode, in.ShippingZipCode)
	setString(&o.ShippingCountry, in.ShippingCountry)
	setString(&o.TrackingNumber, in.TrackingNumber)
	if in.Notes != nil {
		o.Notes = *in.Notes
	}
}

// NewOrderNumber formats an order number from a random token.
func NewOrderNumber(token string) string {
	token = strings.ToUpper(strings.ReplaceAll(token, "-", ""))
	if len(token) > 8 {
		token = token[:8]
	}
	return "ORD-" + token
}
