package order

import (
	"context"
	"fmt"
	"time"

	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error)
	GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error)
	ListOrders(ctx context.Context, filter *OrderFilterInput, limit, page int32) ([]*Order, error)
	Transition(ctx context.Context, orderID uuid.UUID, to OrderStatus, shipping *ShippingInfo) (*Order, error)
}

type CreateOrderInput struct {
	SellerID    uint
	BuyerName   string
	BuyerPhone  string
	ShippingFee int64
	Tax         int64
	Items       []CreateOrderItemInput
}

type CreateOrderItemInput struct {
	ProductName string
	Quantity    int
	UnitPrice   int64
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// CreateOrder ingests an order placed by the (external) checkout flow. Totals
// are computed server-side from the item snapshot.
func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateOrder"),
		zap.Int("item_count", len(input.Items)),
	)

	if len(input.Items) == 0 {
		return nil, fmt.Errorf("%w: order has no items", ErrValidation)
	}

	items := make([]OrderItem, 0, len(input.Items))
	var subtotal int64

	for _, item := range input.Items {
		if item.Quantity <= 0 {
			log.Warn("invalid quantity", zap.String("product", item.ProductName))
			return nil, fmt.Errorf("%w: quantity must be greater than zero", ErrValidation)
		}

		itemSubtotal := item.UnitPrice * int64(item.Quantity)
		subtotal += itemSubtotal

		items = append(items, OrderItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    itemSubtotal,
		})
	}

	order := &Order{
		ID:          uuid.New(),
		SellerID:    input.SellerID,
		BuyerName:   input.BuyerName,
		BuyerPhone:  input.BuyerPhone,
		Subtotal:    subtotal,
		ShippingFee: input.ShippingFee,
		Tax:         input.Tax,
		Total:       subtotal + input.ShippingFee + input.Tax,
		Status:      StatusPending,
		CreatedAt:   time.Now(),
		Items:       items,
	}

	if err := s.repo.CreateOrderTx(ctx, order); err != nil {
		log.Error("failed to create order", zap.Error(err))
		return nil, err
	}

	log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.Int64("total", order.Total),
	)

	return order, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID) (*Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// Sellers only see their own orders.
	if sellerID, ok := utils.GetSellerIDFromContext(ctx); ok && order.SellerID != sellerID {
		return nil, ErrUnauthorized
	}

	return order, nil
}

func (s *service) ListOrders(ctx context.Context, filter *OrderFilterInput, limit, page int32) ([]*Order, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	sellerID, _ := utils.GetSellerIDFromContext(ctx)
	return s.repo.FetchOrders(ctx, sellerID, filter, limit, offset)
}

// Transition applies one step of the order lifecycle. Re-requesting the
// current status is an idempotent no-op; everything else must be permitted by
// the transition table. Shipping requires tracking details.
func (s *service) Transition(ctx context.Context, orderID uuid.UUID, to OrderStatus, shipping *ShippingInfo) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("order_id", orderID.String()),
		zap.String("to_status", string(to)),
	)

	if !ValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == to {
		log.Debug("order already in requested status")
		return order, nil
	}

	if !CanTransition(order.Status, to) {
		log.Warn("illegal order transition", zap.String("from_status", string(order.Status)))
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, order.Status, to)
	}

	if to == StatusShipped {
		if shipping == nil || shipping.TrackingNumber == "" || shipping.ShippingCarrier == "" {
			return nil, fmt.Errorf("%w: shipping requires tracking_number and shipping_carrier", ErrValidation)
		}
	}

	if err := s.repo.UpdateStatus(ctx, orderID, order.Status, to, shipping); err != nil {
		log.Error("failed to update order status", zap.Error(err))
		return nil, err
	}

	order.Status = to
	if shipping != nil {
		order.TrackingNumber = &shipping.TrackingNumber
		order.ShippingCarrier = &shipping.ShippingCarrier
	}

	log.Info("order status updated", zap.String("status", string(to)))
	return order, nil
}
