package delivery

import (
	"time"

	"fulfillment-be/internal/order"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending        Status = "pending"
	StatusAwaitingPickup Status = "awaiting_pickup"
	StatusPickedUp       Status = "picked_up"
	StatusInTransit      Status = "in_transit"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusFailed         Status = "failed"
	StatusCancelled      Status = "cancelled"
)

// Delivery is created once a delivery method is chosen for an order. It keeps
// a weak reference to the order; the order's lifecycle is owned elsewhere.
type Delivery struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	SellerID      uint
	Method        order.DeliveryMethod
	Status        Status
	PlatformFee   int64
	PickupAddress string
	Courier       *CourierAssignment
	Proof         *ProofOfDelivery
	Updates       []Update
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CourierAssignment holds the platform courier dispatched to a
// platform-managed delivery.
type CourierAssignment struct {
	PlatformCourierID uint
	DriverName        string
	DriverPhone       string
	VehicleType       string
	VehicleNumber     string
}

// ProofOfDelivery closes out seller-managed deliveries.
type ProofOfDelivery struct {
	ImageURL       string
	RecipientName  string
	RecipientPhone string
}

// Update is an append-only log entry; rows are never mutated after creation.
type Update struct {
	ID         uint
	DeliveryID uuid.UUID
	Status     Status
	Notes      *string
	Location   *string
	CreatedAt  time.Time
}

type DeliveryFilterInput struct {
	Method *order.DeliveryMethod
	Status *Status
}
