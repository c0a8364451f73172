package delivery

import (
	"context"
	"fmt"
	"time"

	"fulfillment-be/internal/logger"
	"fulfillment-be/internal/order"
	"fulfillment-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	ChooseMethod(ctx context.Context, ord *order.Order, method order.DeliveryMethod, pickupAddress string) (*Delivery, error)
	GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*Delivery, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Delivery, error)
	ListDeliveries(ctx context.Context, filter *DeliveryFilterInput, limit, page int32) ([]*Delivery, error)
	Transition(ctx context.Context, deliveryID uuid.UUID, to Status, input TransitionInput) (*Delivery, error)
	AttachProof(ctx context.Context, deliveryID uuid.UUID, proof ProofOfDelivery) (*Delivery, error)
	AssignCourier(ctx context.Context, deliveryID uuid.UUID, courier CourierAssignment) (*Delivery, error)
}

// TransitionInput carries the optional note/location recorded with a status
// change, plus a proof supplied atomically with the delivered transition.
type TransitionInput struct {
	Notes    *string
	Location *string
	Proof    *ProofOfDelivery
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// ChooseMethod records the delivery method for an order that has none yet and
// creates the delivery in its initial state. The method is chosen exactly
// once; repeats fail with ErrMethodAlreadyAssigned.
func (s *service) ChooseMethod(ctx context.Context, ord *order.Order, method order.DeliveryMethod, pickupAddress string) (*Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ChooseMethod"),
		zap.String("order_id", ord.ID.String()),
		zap.String("delivery_method", string(method)),
	)

	if !order.ValidMethod(method) {
		return nil, fmt.Errorf("%w: unknown delivery method %q", ErrValidation, method)
	}
	if ord.DeliveryMethod != nil {
		return nil, ErrMethodAlreadyAssigned
	}

	var fee int64
	if method == order.MethodPlatform {
		// No measurements at selection time; charge the default fee.
		fee = DefaultPlatformFee()
	}

	d := &Delivery{
		ID:            uuid.New(),
		OrderID:       ord.ID,
		SellerID:      ord.SellerID,
		Method:        method,
		Status:        StatusPending,
		PlatformFee:   fee,
		PickupAddress: pickupAddress,
		CreatedAt:     time.Now(),
	}

	note := "delivery method chosen: " + string(method)
	initial := Update{
		DeliveryID: d.ID,
		Status:     StatusPending,
		Notes:      &note,
		CreatedAt:  d.CreatedAt,
	}

	if err := s.repo.CreateDeliveryTx(ctx, d, initial); err != nil {
		log.Error("failed to create delivery", zap.Error(err))
		return nil, err
	}
	d.Updates = []Update{initial}

	log.Info("delivery created",
		zap.String("delivery_id", d.ID.String()),
		zap.Int64("platform_fee", fee),
	)

	return d, nil
}

func (s *service) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*Delivery, error) {
	d, err := s.repo.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}
	return s.authorize(ctx, d)
}

func (s *service) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*Delivery, error) {
	d, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return s.authorize(ctx, d)
}

// authorize hides other sellers' deliveries when a seller identity is present.
func (s *service) authorize(ctx context.Context, d *Delivery) (*Delivery, error) {
	if sellerID, ok := utils.GetSellerIDFromContext(ctx); ok && d.SellerID != sellerID {
		return nil, ErrUnauthorized
	}
	return d, nil
}

func (s *service) ListDeliveries(ctx context.Context, filter *DeliveryFilterInput, limit, page int32) ([]*Delivery, error) {
	if limit <= 0 {
		limit = 20
	}
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit

	// The dashboard sends delivery_method=supplier for seller-managed rows;
	// normalize the alias to the stored value.
	if filter != nil && filter.Method != nil && *filter.Method == "supplier" {
		m := order.MethodSeller
		filter.Method = &m
	}

	sellerID, _ := utils.GetSellerIDFromContext(ctx)
	return s.repo.FetchDeliveries(ctx, sellerID, filter, limit, offset)
}

// Transition applies one step of the delivery lifecycle. Re-requesting the
// current status is an idempotent no-op and appends no update row. Marking a
// seller-managed delivery delivered requires proof of delivery, either
// attached beforehand or supplied atomically with this call.
func (s *service) Transition(ctx context.Context, deliveryID uuid.UUID, to Status, input TransitionInput) (*Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Transition"),
		zap.String("delivery_id", deliveryID.String()),
		zap.String("to_status", string(to)),
	)

	if !ValidStatus(to) {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, to)
	}

	d, err := s.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if d.Status == to {
		log.Debug("delivery already in requested status")
		return d, nil
	}

	if !CanTransition(d.Status, to) {
		log.Warn("illegal delivery transition", zap.String("from_status", string(d.Status)))
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, d.Status, to)
	}

	var proof *ProofOfDelivery
	if to == StatusDelivered && d.Method == order.MethodSeller && d.Proof == nil {
		if input.Proof == nil {
			return nil, ErrMissingProof
		}
		if err := validateProof(*input.Proof); err != nil {
			return nil, err
		}
		proof = input.Proof
	}

	update := Update{
		DeliveryID: d.ID,
		Status:     to,
		Notes:      input.Notes,
		Location:   input.Location,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.TransitionTx(ctx, d.ID, d.Status, to, update, proof); err != nil {
		log.Error("failed to update delivery status", zap.Error(err))
		return nil, err
	}

	d.Status = to
	if proof != nil {
		d.Proof = proof
	}
	d.Updates = append(d.Updates, update)

	log.Info("delivery status updated", zap.String("status", string(to)))
	return d, nil
}

// AttachProof stores the proof-of-delivery artifact. It never changes the
// delivery status; the delivered transition stays a separate call.
func (s *service) AttachProof(ctx context.Context, deliveryID uuid.UUID, proof ProofOfDelivery) (*Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AttachProof"),
		zap.String("delivery_id", deliveryID.String()),
	)

	if err := validateProof(proof); err != nil {
		return nil, err
	}

	d, err := s.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if d.Status != StatusOutForDelivery {
		return nil, ErrProofNotAllowed
	}

	if err := s.repo.SaveProof(ctx, d.ID, proof); err != nil {
		log.Error("failed to save proof", zap.Error(err))
		return nil, err
	}

	d.Proof = &proof
	log.Info("proof of delivery attached")
	return d, nil
}

// AssignCourier records the platform courier and readies the delivery for
// pickup. Only platform-managed deliveries get couriers.
func (s *service) AssignCourier(ctx context.Context, deliveryID uuid.UUID, courier CourierAssignment) (*Delivery, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "AssignCourier"),
		zap.String("delivery_id", deliveryID.String()),
	)

	if courier.DriverName == "" || courier.DriverPhone == "" {
		return nil, fmt.Errorf("%w: courier requires driver name and phone", ErrValidation)
	}

	d, err := s.GetDelivery(ctx, deliveryID)
	if err != nil {
		return nil, err
	}

	if d.Method != order.MethodPlatform {
		return nil, fmt.Errorf("%w: courier assignment requires a platform-managed delivery", ErrValidation)
	}
	if !CanTransition(d.Status, StatusAwaitingPickup) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, d.Status, StatusAwaitingPickup)
	}

	note := "courier assigned: " + courier.DriverName
	update := Update{
		DeliveryID: d.ID,
		Status:     StatusAwaitingPickup,
		Notes:      &note,
		CreatedAt:  time.Now(),
	}

	if err := s.repo.AssignCourierTx(ctx, d.ID, d.Status, courier, update); err != nil {
		log.Error("failed to assign courier", zap.Error(err))
		return nil, err
	}

	d.Status = StatusAwaitingPickup
	d.Courier = &courier
	d.Updates = append(d.Updates, update)

	log.Info("courier assigned", zap.String("driver_name", courier.DriverName))
	return d, nil
}

func validateProof(p ProofOfDelivery) error {
	if p.ImageURL == "" || p.RecipientName == "" {
		return fmt.Errorf("%w: proof requires an image and recipient name", ErrValidation)
	}
	return nil
}
