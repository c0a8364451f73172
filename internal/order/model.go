package order

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type DeliveryMethod string

const (
	MethodSeller   DeliveryMethod = "seller"
	MethodPlatform DeliveryMethod = "platform"
)

// Order is an immutable historical record: only status, delivery method and
// shipping info ever change after creation.
type Order struct {
	ID              uuid.UUID
	SellerID        uint
	BuyerName       string
	BuyerPhone      string
	Subtotal        int64
	ShippingFee     int64
	Tax             int64
	Total           int64
	Status          OrderStatus
	DeliveryMethod  *DeliveryMethod
	TrackingNumber  *string
	ShippingCarrier *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Items           []OrderItem
}

type OrderItem struct {
	ID          uint
	OrderID     uuid.UUID
	ProductName string
	Quantity    int
	UnitPrice   int64
	Subtotal    int64
}

// ShippingInfo carries the fields required to mark an order shipped.
type ShippingInfo struct {
	TrackingNumber  string
	ShippingCarrier string
}

type OrderFilterInput struct {
	Status *OrderStatus
	Search *string
}
