package model

import "time"

// DeliveryStatus mirrors shipment tracking states. Transitions are not restricted.
type DeliveryStatus string

// Delivery statuses
const (
	DeliveryPending        DeliveryStatus = "pending"
	DeliveryInTransit      DeliveryStatus = "in_transit"
	DeliveryOutForDelivery DeliveryStatus = "out_for_delivery"
	DeliveryDelivered      DeliveryStatus = "delivered"
	DeliveryFailed         DeliveryStatus = "failed"
	DeliveryReturned       DeliveryStatus = "returned"
)

// Delivery tracks the shipment of exactly one order.
type Delivery struct {
	ID                int64
	OrderID           int64
	OrderNumber       string
	CustomerFirst     string
	CustomerLast      string
	DeliveryService   string
	TrackingNumber    string
	Status            DeliveryStatus
	EstimatedDelivery *time.Time
	ActualDelivery    *time.Time
	DeliveryNotes     string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// CustomerName is the full name of the customer behind the order.
func (d *Delivery) CustomerName() string {
	return FullName(d.CustomerFirst, d.CustomerLast)
}

// DeliveryInput is the write payload for deliveries.
type DeliveryInput struct {
	Order             *int64              `json:"order" validate:"omitempty,gt=0"`
	DeliveryService   *string             `json:"delivery_service" validate:"omitempty,max=100"`
	TrackingNumber    *string             `json:"tracking_number" validate:"omitempty,max=100"`
	Status            *string             `json:"status" validate:"omitempty,oneof=pending in_transit out_for_delivery delivered failed returned"`
	EstimatedDelivery Nullable[time.Time] `json:"estimated_delivery,omitzero"`
	ActualDelivery    Nullable[time.Time] `json:"actual_delivery,omitzero"`
	DeliveryNotes     *string             `json:"delivery_notes"`
}

// Missing lists required fields absent from a full write.
func (in *DeliveryInput) Missing() []string {
	if in.Order == nil {
		return []string{"order"}
	}
	return nil
}

// Apply copies the provided fields onto d, stamping the actual delivery time on first delivery.
func (in *DeliveryInput) Apply(d *Delivery, now time.Time) {
	if in.Order != nil {
		d.OrderID = *in.Order
	}
	setString(&d.DeliveryService, in.DeliveryService)
	setString(&d.TrackingNumber, in.TrackingNumber)
	if in.EstimatedDelivery.Set {
		d.EstimatedDelivery = in.EstimatedDelivery.Ptr()
	}
	if in.ActualDelivery.Set {
		d.ActualDelivery = in.ActualDelivery.Ptr()
	}
	if in.DeliveryNotes != nil {
		d.DeliveryNotes = *in.DeliveryNotes
	}
	if in.Status != nil {
		d.Status = DeliveryStatus(*in.Status)
	}
	if d.Status == DeliveryDelivered && d.ActualDelivery == nil {
		d.ActualDelivery = &now
	}
}
