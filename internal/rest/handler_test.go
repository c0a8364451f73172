package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fulfillment-be/internal/auth"
	"fulfillment-be/internal/config"
	"fulfillment-be/internal/delivery"
	"fulfillment-be/internal/fulfillment"
	"fulfillment-be/internal/metrics"
	"fulfillment-be/internal/onboarding"
	"fulfillment-be/internal/order"
	"fulfillment-be/internal/seller"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderService struct{ mock.Mock }

func (m *MockOrderService) CreateOrder(ctx context.Context, input order.CreateOrderInput) (*order.Order, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID uuid.UUID) (*order.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderService) ListOrders(ctx context.Context, filter *order.OrderFilterInput, limit, page int32) ([]*order.Order, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderService) Transition(ctx context.Context, orderID uuid.UUID, to order.OrderStatus, shipping *order.ShippingInfo) (*order.Order, error) {
	args := m.Called(ctx, orderID, to, shipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockDeliveryService struct{ mock.Mock }

func (m *MockDeliveryService) ChooseMethod(ctx context.Context, ord *order.Order, method order.DeliveryMethod, pickupAddress string) (*delivery.Delivery, error) {
	args := m.Called(ctx, ord, method, pickupAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryService) GetDelivery(ctx context.Context, deliveryID uuid.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, deliveryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryService) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryService) ListDeliveries(ctx context.Context, filter *delivery.DeliveryFilterInput, limit, page int32) ([]*delivery.Delivery, error) {
	args := m.Called(ctx, filter, limit, page)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryService) Transition(ctx context.Context, deliveryID uuid.UUID, to delivery.Status, input delivery.TransitionInput) (*delivery.Delivery, error) {
	args := m.Called(ctx, deliveryID, to, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryService) AttachProof(ctx context.Context, deliveryID uuid.UUID, proof delivery.ProofOfDelivery) (*delivery.Delivery, error) {
	args := m.Called(ctx, deliveryID, proof)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockDeliveryService) AssignCourier(ctx context.Context, deliveryID uuid.UUID, courier delivery.CourierAssignment) (*delivery.Delivery, error) {
	args := m.Called(ctx, deliveryID, courier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockFulfillmentService struct{ mock.Mock }

func (m *MockFulfillmentService) PlaceDeliveryMethod(ctx context.Context, orderID uuid.UUID, method order.DeliveryMethod, pickupAddress string) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID, method, pickupAddress)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

func (m *MockFulfillmentService) AdvanceOrder(ctx context.Context, orderID uuid.UUID, to order.OrderStatus, shipping *order.ShippingInfo) (*order.Order, error) {
	args := m.Called(ctx, orderID, to, shipping)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

type MockSellerService struct{ mock.Mock }

func (m *MockSellerService) Register(ctx context.Context, email, password, storeName string) (string, seller.Seller, error) {
	args := m.Called(ctx, email, password, storeName)
	return args.String(0), args.Get(1).(seller.Seller), args.Error(2)
}

func (m *MockSellerService) Login(ctx context.Context, email, password string) (string, seller.Seller, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Get(1).(seller.Seller), args.Error(2)
}

func (m *MockSellerService) OnboardingStatus(ctx context.Context, sellerID uint) (*onboarding.Status, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*onboarding.Status), args.Error(1)
}

func (m *MockSellerService) UpdateOnboarding(ctx context.Context, sellerID uint, needsOnboarding bool, step string) error {
	args := m.Called(ctx, sellerID, needsOnboarding, step)
	return args.Error(0)
}

type MockGateService struct{ mock.Mock }

func (m *MockGateService) CheckAccess(currentStep string, status onboarding.Status) onboarding.Decision {
	args := m.Called(currentStep, status)
	return args.Get(0).(onboarding.Decision)
}

func (m *MockGateService) EvaluateAccess(ctx context.Context, sellerID uint, currentStep string) (onboarding.Decision, error) {
	args := m.Called(ctx, sellerID, currentStep)
	return args.Get(0).(onboarding.Decision), args.Error(1)
}

type fixture struct {
	server     *Server
	orders     *MockOrderService
	deliveries *MockDeliveryService
	flow       *MockFulfillmentService
	sellers    *MockSellerService
	gate       *MockGateService
	reg        *metrics.Registry
}

func newTestServer(t *testing.T) *fixture {
	t.Helper()
	t.Setenv("JWT_SECRET", "rest-test-secret")

	f := &fixture{
		orders:     new(MockOrderService),
		deliveries: new(MockDeliveryService),
		flow:       new(MockFulfillmentService),
		sellers:    new(MockSellerService),
		gate:       new(MockGateService),
		reg:        metrics.NewRegistry(),
	}

	cfg := &config.Config{AppPort: "8080", AppEnv: "test", UploadDir: t.TempDir()}
	f.server = NewServer(cfg, Services{
		Sellers:    f.sellers,
		Gate:       f.gate,
		Orders:     f.orders,
		Deliveries: f.deliveries,
		Flow:       f.flow,
	}, f.reg)

	return f
}

var (
	_ order.Service       = (*MockOrderService)(nil)
	_ delivery.Service    = (*MockDeliveryService)(nil)
	_ fulfillment.Service = (*MockFulfillmentService)(nil)
	_ seller.Service      = (*MockSellerService)(nil)
	_ onboarding.Service  = (*MockGateService)(nil)
)

func (f *fixture) do(t *testing.T, method, path string, body any, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		token, err := auth.GenerateJWT(1, "seller", "shop@example.com")
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.server.router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHealthAndMetrics(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/metrics", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Contains(t, data, "transitions_applied")
}

func TestAuthRequired(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodGet, "/orders", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.Equal(t, false, body["success"])
}

func TestRegisterEndpoint(t *testing.T) {
	f := newTestServer(t)

	f.sellers.On("Register", mock.Anything, "shop@example.com", "pass12345", "Shwe Store").
		Return("tok123", seller.Seller{ID: 1, Email: "shop@example.com", StoreName: "Shwe Store", NeedsOnboarding: true, OnboardingStep: "store-basic"}, nil)

	rec := f.do(t, http.MethodPost, "/auth/register", jsonBody{
		"email": "shop@example.com", "password": "pass12345", "store_name": "Shwe Store",
	}, false)

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeEnvelope(t, rec)
	data := body["data"].(map[string]any)
	assert.Equal(t, "tok123", data["token"])
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "access_token=tok123")
}

func TestRegisterEndpoint_InvalidBody(t *testing.T) {
	f := newTestServer(t)

	rec := f.do(t, http.MethodPost, "/auth/register", jsonBody{"email": "not-an-email"}, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOnboardingStatusEndpoint(t *testing.T) {
	f := newTestServer(t)

	f.gate.On("EvaluateAccess", mock.Anything, uint(1), "store-basic").
		Return(onboarding.Redirect("address"), nil)
	f.sellers.On("OnboardingStatus", mock.Anything, uint(1)).
		Return(&onboarding.Status{NeedsOnboarding: true, CurrentStep: "address"}, nil)

	rec := f.do(t, http.MethodGet, "/seller/onboarding/status?current_step=store-basic", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	assert.Equal(t, false, data["allowed"])
	assert.Equal(t, "address", data["redirect_to"])
	assert.Equal(t, true, data["needs_onboarding"])
}

func TestChooseDeliveryMethodEndpoint(t *testing.T) {
	f := newTestServer(t)
	orderID := uuid.New()

	t.Run("Created", func(t *testing.T) {
		f.flow.On("PlaceDeliveryMethod", mock.Anything, orderID, order.MethodPlatform, "Warehouse A").
			Return(&delivery.Delivery{
				ID:          uuid.New(),
				OrderID:     orderID,
				Method:      order.MethodPlatform,
				Status:      delivery.StatusPending,
				PlatformFee: 7500,
			}, nil).Once()

		rec := f.do(t, http.MethodPost, "/orders/"+orderID.String()+"/delivery-method", jsonBody{
			"delivery_method": "platform", "pickup_address": "Warehouse A",
		}, true)

		require.Equal(t, http.StatusCreated, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, float64(7500), data["platform_delivery_fee"])
		assert.Equal(t, "pending", data["status"])
	})

	t.Run("AlreadyAssigned", func(t *testing.T) {
		f.flow.On("PlaceDeliveryMethod", mock.Anything, orderID, order.MethodSeller, "").
			Return(nil, delivery.ErrMethodAlreadyAssigned).Once()

		rec := f.do(t, http.MethodPost, "/orders/"+orderID.String()+"/delivery-method", jsonBody{
			"delivery_method": "seller",
		}, true)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("BadID", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/orders/not-a-uuid/delivery-method", jsonBody{
			"delivery_method": "seller",
		}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestShipOrderEndpoint(t *testing.T) {
	f := newTestServer(t)
	orderID := uuid.New()

	t.Run("MissingTracking", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/orders/"+orderID.String()+"/ship", jsonBody{}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("IllegalTransition", func(t *testing.T) {
		f.flow.On("AdvanceOrder", mock.Anything, orderID, order.StatusShipped,
			&order.ShippingInfo{TrackingNumber: "TRK-1", ShippingCarrier: "Royal Express"}).
			Return(nil, order.ErrIllegalTransition).Once()

		rec := f.do(t, http.MethodPost, "/orders/"+orderID.String()+"/ship", jsonBody{
			"tracking_number": "TRK-1", "shipping_carrier": "Royal Express",
		}, true)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		f.flow.On("AdvanceOrder", mock.Anything, orderID, order.StatusShipped,
			&order.ShippingInfo{TrackingNumber: "TRK-2", ShippingCarrier: "Royal Express"}).
			Return(&order.Order{ID: orderID, Status: order.StatusShipped}, nil).Once()

		rec := f.do(t, http.MethodPost, "/orders/"+orderID.String()+"/ship", jsonBody{
			"tracking_number": "TRK-2", "shipping_carrier": "Royal Express",
		}, true)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, "shipped", data["status"])
	})
}

func TestDeliveryTransitionEndpoint(t *testing.T) {
	f := newTestServer(t)
	deliveryID := uuid.New()

	t.Run("MissingProofConflict", func(t *testing.T) {
		f.deliveries.On("Transition", mock.Anything, deliveryID, delivery.StatusDelivered, mock.Anything).
			Return(nil, delivery.ErrMissingProof).Once()

		rec := f.do(t, http.MethodPost, "/deliveries/"+deliveryID.String()+"/status", jsonBody{
			"status": "delivered",
		}, true)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Success", func(t *testing.T) {
		f.deliveries.On("Transition", mock.Anything, deliveryID, delivery.StatusPickedUp, mock.Anything).
			Return(&delivery.Delivery{ID: deliveryID, Status: delivery.StatusPickedUp}, nil).Once()

		rec := f.do(t, http.MethodPost, "/deliveries/"+deliveryID.String()+"/status", jsonBody{
			"status": "picked_up", "location": "Hlaing Tharyar hub",
		}, true)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, "picked_up", data["status"])
	})
}

func TestListDeliveriesEndpoint_SupplierAlias(t *testing.T) {
	f := newTestServer(t)

	f.deliveries.On("ListDeliveries", mock.Anything,
		mock.MatchedBy(func(filter *delivery.DeliveryFilterInput) bool {
			return filter.Method != nil && *filter.Method == "supplier"
		}), int32(20), int32(1)).
		Return([]*delivery.Delivery{}, nil)

	rec := f.do(t, http.MethodGet, "/deliveries?delivery_method=supplier", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.deliveries.AssertExpectations(t)
}

func TestStatusFromError(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{order.ErrValidation, http.StatusBadRequest},
		{delivery.ErrValidation, http.StatusBadRequest},
		{order.ErrUnauthorized, http.StatusUnauthorized},
		{seller.ErrInvalidCredentials, http.StatusUnauthorized},
		{order.ErrOrderNotFound, http.StatusNotFound},
		{delivery.ErrDeliveryNotFound, http.StatusNotFound},
		{order.ErrIllegalTransition, http.StatusConflict},
		{delivery.ErrIllegalTransition, http.StatusConflict},
		{delivery.ErrMethodAlreadyAssigned, http.StatusConflict},
		{delivery.ErrMissingProof, http.StatusConflict},
		{delivery.ErrProofNotAllowed, http.StatusConflict},
		{order.ErrStatusConflict, http.StatusConflict},
		{delivery.ErrStatusConflict, http.StatusConflict},
		{seller.ErrEmailExists, http.StatusConflict},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFromError(tc.err), tc.err.Error())
	}
}

type jsonBody = map[string]any
