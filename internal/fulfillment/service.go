package fulfillment

import (
	"context"
	"errors"

	"fulfillment-be/internal/delivery"
	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/metrics"
	"fulfillment-be/internal/order"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service coordinates the order and delivery lifecycles so the two state
// machines never drift apart.
type Service interface {
	PlaceDeliveryMethod(ctx context.Context, orderID uuid.UUID, method order.DeliveryMethod, pickupAddress string) (*delivery.Delivery, error)
	AdvanceOrder(ctx context.Context, orderID uuid.UUID, to order.OrderStatus, shipping *order.ShippingInfo) (*order.Order, error)
}

type service struct {
	orders     order.Service
	deliveries delivery.Service
	reg        *metrics.Registry
}

func NewService(orders order.Service, deliveries delivery.Service, reg *metrics.Registry) Service {
	return &service{orders: orders, deliveries: deliveries, reg: reg}
}

// PlaceDeliveryMethod records the seller's delivery choice for an order and
// creates the delivery. Seller-managed deliveries skip the courier queue and
// go straight to awaiting_pickup; platform deliveries stay pending until a
// courier is assigned.
func (s *service) PlaceDeliveryMethod(ctx context.Context, orderID uuid.UUID, method order.DeliveryMethod, pickupAddress string) (*delivery.Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PlaceDeliveryMethod"),
		zap.String("order_id", orderID.String()),
	)

	ord, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	d, err := s.deliveries.ChooseMethod(ctx, ord, method, pickupAddress)
	if err != nil {
		return nil, err
	}
	s.reg.DeliveriesCreated.Inc()

	if method == order.MethodSeller {
		readied, err := s.deliveries.Transition(ctx, d.ID, delivery.StatusAwaitingPickup, delivery.TransitionInput{})
		if err != nil {
			log.Error("failed to ready seller delivery for pickup",
				zap.String("delivery_id", d.ID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		d = readied
	}

	return d, nil
}

// AdvanceOrder applies an order status change and keeps the delivery in step.
// When the order ships, the delivery is walked forward along the happy path up
// to in_transit; the final leg stays with the delivery endpoints because it
// may require proof.
func (s *service) AdvanceOrder(ctx context.Context, orderID uuid.UUID, to order.OrderStatus, shipping *order.ShippingInfo) (*order.Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AdvanceOrder"),
		zap.String("order_id", orderID.String()),
		zap.String("to_status", string(to)),
	)

	ord, err := s.orders.Transition(ctx, orderID, to, shipping)
	if err != nil {
		if errors.Is(err, order.ErrIllegalTransition) || errors.Is(err, order.ErrStatusConflict) {
			s.reg.TransitionsRejected.Inc()
		}
		return nil, err
	}
	s.reg.TransitionsApplied.Inc()

	if to == order.StatusShipped {
		if err := s.syncDeliveryShipped(ctx, orderID); err != nil {
			// The order update already committed; surface the sync failure so
			// the caller retries. Retries are safe because re-requesting a
			// reached status is a no-op.
			log.Error("failed to sync delivery after shipment", zap.Error(err))
			return nil, err
		}
	}

	return ord, nil
}

// syncDeliveryShipped walks the order's delivery forward to in_transit. A
// shipped order with no delivery row, or a delivery that already progressed
// past in_transit or ended in a terminal state, needs no work.
func (s *service) syncDeliveryShipped(ctx context.Context, orderID uuid.UUID) error {
	d, err := s.deliveries.GetByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, delivery.ErrDeliveryNotFound) {
			return nil
		}
		return err
	}

	target := delivery.Rank(delivery.StatusInTransit)
	for delivery.Rank(d.Status) >= 0 && delivery.Rank(d.Status) < target {
		next, ok := delivery.NextForward(d.Status)
		if !ok {
			break
		}
		d, err = s.deliveries.Transition(ctx, d.ID, next, delivery.TransitionInput{})
		if err != nil {
			return err
		}
	}

	return nil
}
