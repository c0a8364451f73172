package rest

import (
	"path/filepath"
	"strconv"
	"time"

	"fulfillment-be/internal/delivery"
	"fulfillment-be/internal/metrics"
	"fulfillment-be/internal/order"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type DeliveryHandler struct {
	deliveries delivery.Service
	reg        *metrics.Registry
	uploadDir  string
}

func NewDeliveryHandler(deliveries delivery.Service, reg *metrics.Registry, uploadDir string) *DeliveryHandler {
	return &DeliveryHandler{deliveries: deliveries, reg: reg, uploadDir: uploadDir}
}

type transitionRequest struct {
	Status   string  `json:"status" binding:"required"`
	Notes    *string `json:"notes"`
	Location *string `json:"location"`
}

type assignCourierRequest struct {
	PlatformCourierID uint   `json:"platform_courier_id"`
	DriverName        string `json:"driver_name" binding:"required"`
	DriverPhone       string `json:"driver_phone" binding:"required"`
	VehicleType       string `json:"vehicle_type"`
	VehicleNumber     string `json:"vehicle_number"`
}

type courierView struct {
	PlatformCourierID uint   `json:"platform_courier_id"`
	DriverName        string `json:"driver_name"`
	DriverPhone       string `json:"driver_phone"`
	VehicleType       string `json:"vehicle_type"`
	VehicleNumber     string `json:"vehicle_number"`
}

type proofView struct {
	ImageURL       string `json:"delivery_proof"`
	RecipientName  string `json:"recipient_name"`
	RecipientPhone string `json:"recipient_phone"`
}

type updateView struct {
	Status    string    `json:"status"`
	Notes     *string   `json:"notes,omitempty"`
	Location  *string   `json:"location,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type deliveryView struct {
	ID            string       `json:"id"`
	OrderID       string       `json:"order_id"`
	Method        string       `json:"delivery_method"`
	Status        string       `json:"status"`
	PlatformFee   int64        `json:"platform_delivery_fee"`
	PickupAddress string       `json:"pickup_address"`
	Courier       *courierView `json:"courier,omitempty"`
	Proof         *proofView   `json:"proof_of_delivery,omitempty"`
	Updates       []updateView `json:"updates"`
	CreatedAt     time.Time    `json:"created_at"`
}

func toDeliveryView(d *delivery.Delivery) deliveryView {
	v := deliveryView{
		ID:            d.ID.String(),
		OrderID:       d.OrderID.String(),
		Method:        string(d.Method),
		Status:        string(d.Status),
		PlatformFee:   d.PlatformFee,
		PickupAddress: d.PickupAddress,
		Updates:       make([]updateView, 0, len(d.Updates)),
		CreatedAt:     d.CreatedAt,
	}

	if d.Courier != nil {
		v.Courier = &courierView{
			PlatformCourierID: d.Courier.PlatformCourierID,
			DriverName:        d.Courier.DriverName,
			DriverPhone:       d.Courier.DriverPhone,
			VehicleType:       d.Courier.VehicleType,
			VehicleNumber:     d.Courier.VehicleNumber,
		}
	}
	if d.Proof != nil {
		v.Proof = &proofView{
			ImageURL:       d.Proof.ImageURL,
			RecipientName:  d.Proof.RecipientName,
			RecipientPhone: d.Proof.RecipientPhone,
		}
	}
	for _, u := range d.Updates {
		v.Updates = append(v.Updates, updateView{
			Status:    string(u.Status),
			Notes:     u.Notes,
			Location:  u.Location,
			CreatedAt: u.CreatedAt,
		})
	}

	return v
}

func queryInt32(c *gin.Context, key string, fallback int32) int32 {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return fallback
	}
	return int32(n)
}

func (h *DeliveryHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	d, err := h.deliveries.GetDelivery(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toDeliveryView(d))
}

func (h *DeliveryHandler) List(c *gin.Context) {
	var filter delivery.DeliveryFilterInput
	if v := c.Query("delivery_method"); v != "" {
		m := order.DeliveryMethod(v)
		filter.Method = &m
	}
	if v := c.Query("status"); v != "" {
		st := delivery.Status(v)
		filter.Status = &st
	}

	list, err := h.deliveries.ListDeliveries(c.Request.Context(), &filter, queryInt32(c, "limit", 20), queryInt32(c, "page", 1))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]deliveryView, 0, len(list))
	for _, d := range list {
		views = append(views, toDeliveryView(d))
	}
	respondOK(c, views)
}

func (h *DeliveryHandler) Transition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	d, err := h.deliveries.Transition(c.Request.Context(), id, delivery.Status(req.Status), delivery.TransitionInput{
		Notes:    req.Notes,
		Location: req.Location,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toDeliveryView(d))
}

func (h *DeliveryHandler) AssignCourier(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req assignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	d, err := h.deliveries.AssignCourier(c.Request.Context(), id, delivery.CourierAssignment{
		PlatformCourierID: req.PlatformCourierID,
		DriverName:        req.DriverName,
		DriverPhone:       req.DriverPhone,
		VehicleType:       req.VehicleType,
		VehicleNumber:     req.VehicleNumber,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, toDeliveryView(d))
}

// AttachProof accepts the proof image as multipart form data, stores it under
// the upload directory and records the proof on the delivery.
func (h *DeliveryHandler) AttachProof(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	file, err := c.FormFile("delivery_proof")
	if err != nil {
		respondBadRequest(c, "delivery_proof image is required")
		return
	}

	recipientName := c.PostForm("recipient_name")
	if recipientName == "" {
		respondBadRequest(c, "recipient_name is required")
		return
	}

	filename := uuid.New().String() + filepath.Ext(file.Filename)
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, filename)); err != nil {
		respondError(c, err)
		return
	}

	d, err := h.deliveries.AttachProof(c.Request.Context(), id, delivery.ProofOfDelivery{
		ImageURL:       "/uploads/" + filename,
		RecipientName:  recipientName,
		RecipientPhone: c.PostForm("recipient_phone"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.reg.ProofsAttached.Inc()
	respondOK(c, toDeliveryView(d))
}
