package rest

import (
	"time"

	"fulfillment-be/internal/fulfillment"
	"fulfillment-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderHandler struct {
	orders order.Service
	flow   fulfillment.Service
}

func NewOrderHandler(orders order.Service, flow fulfillment.Service) *OrderHandler {
	return &OrderHandler{orders: orders, flow: flow}
}

type createOrderRequest struct {
	BuyerName   string                   `json:"buyer_name" binding:"required"`
	BuyerPhone  string                   `json:"buyer_phone" binding:"required"`
	ShippingFee int64                    `json:"shipping_fee"`
	Tax         int64                    `json:"tax"`
	Items       []createOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

type createOrderItemRequest struct {
	ProductName string `json:"product_name" binding:"required"`
	Quantity    int    `json:"quantity" binding:"required,gt=0"`
	UnitPrice   int64  `json:"unit_price" binding:"required,gt=0"`
}

type chooseMethodRequest struct {
	DeliveryMethod string `json:"delivery_method" binding:"required"`
	PickupAddress  string `json:"pickup_address"`
}

type shipOrderRequest struct {
	TrackingNumber  string `json:"tracking_number" binding:"required"`
	ShippingCarrier string `json:"shipping_carrier" binding:"required"`
}

type orderItemView struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int64  `json:"unit_price"`
	Subtotal    int64  `json:"subtotal"`
}

type orderView struct {
	ID              string          `json:"id"`
	BuyerName       string          `json:"buyer_name"`
	BuyerPhone      string          `json:"buyer_phone"`
	Subtotal        int64           `json:"subtotal"`
	ShippingFee     int64           `json:"shipping_fee"`
	Tax             int64           `json:"tax"`
	Total           int64           `json:"total_amount"`
	Status          string          `json:"status"`
	DeliveryMethod  *string         `json:"delivery_method"`
	TrackingNumber  *string         `json:"tracking_number,omitempty"`
	ShippingCarrier *string         `json:"shipping_carrier,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	Items           []orderItemView `json:"items"`
}

func toOrderView(o *order.Order) orderView {
	items := make([]orderItemView, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, orderItemView{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal,
		})
	}

	var method *string
	if o.DeliveryMethod != nil {
		m := string(*o.DeliveryMethod)
		method = &m
	}

	return orderView{
		ID:              o.ID.String(),
		BuyerName:       o.BuyerName,
		BuyerPhone:      o.BuyerPhone,
		Subtotal:        o.Subtotal,
		ShippingFee:     o.ShippingFee,
		Tax:             o.Tax,
		Total:           o.Total,
		Status:          string(o.Status),
		DeliveryMethod:  method,
		TrackingNumber:  o.TrackingNumber,
		ShippingCarrier: o.ShippingCarrier,
		CreatedAt:       o.CreatedAt,
		Items:           items,
	}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	input := order.CreateOrderInput{
		BuyerName:   req.BuyerName,
		BuyerPhone:  req.BuyerPhone,
		ShippingFee: req.ShippingFee,
		Tax:         req.Tax,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, order.CreateOrderItemInput{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		})
	}

	ord, err := h.orders.CreateOrder(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, toOrderView(ord))
}

func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ord, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toOrderView(ord))
}

func (h *OrderHandler) List(c *gin.Context) {
	var filter order.OrderFilterInput
	if v := c.Query("status"); v != "" {
		st := order.OrderStatus(v)
		filter.Status = &st
	}
	if v := c.Query("search"); v != "" {
		filter.Search = &v
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), &filter, queryInt32(c, "limit", 20), queryInt32(c, "page", 1))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]orderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(o))
	}
	respondOK(c, views)
}

// ChooseDeliveryMethod assigns the delivery method and returns the delivery
// it created, fee included.
func (h *OrderHandler) ChooseDeliveryMethod(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req chooseMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	d, err := h.flow.PlaceDeliveryMethod(c.Request.Context(), id, order.DeliveryMethod(req.DeliveryMethod), req.PickupAddress)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, toDeliveryView(d))
}

func (h *OrderHandler) Confirm(c *gin.Context) {
	h.advance(c, order.StatusConfirmed, nil)
}

func (h *OrderHandler) Process(c *gin.Context) {
	h.advance(c, order.StatusProcessing, nil)
}

func (h *OrderHandler) Cancel(c *gin.Context) {
	h.advance(c, order.StatusCancelled, nil)
}

func (h *OrderHandler) Ship(c *gin.Context) {
	var req shipOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	h.advance(c, order.StatusShipped, &order.ShippingInfo{
		TrackingNumber:  req.TrackingNumber,
		ShippingCarrier: req.ShippingCarrier,
	})
}

func (h *OrderHandler) advance(c *gin.Context, to order.OrderStatus, shipping *order.ShippingInfo) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ord, err := h.flow.AdvanceOrder(c.Request.Context(), id, to, shipping)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toOrderView(ord))
}
