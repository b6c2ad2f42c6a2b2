package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/application"
	"github.com/harborstay/service-booking/internal/auth"
	"github.com/harborstay/service-booking/internal/metrics"
	"github.com/harborstay/service-booking/internal/middleware"
)

// BookingHandler handles HTTP requests for the booking lifecycle.
type BookingHandler struct {
	bookings   *application.BookingService
	payments   *application.PaymentLedgerService
	checkInOut *application.CheckInOutService
	metrics    *metrics.Metrics
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(
	bookings *application.BookingService,
	payments *application.PaymentLedgerService,
	checkInOut *application.CheckInOutService,
	m *metrics.Metrics,
) *BookingHandler {
	return &BookingHandler{
		bookings:   bookings,
		payments:   payments,
		checkInOut: checkInOut,
		metrics:    m,
	}
}

// RegisterRoutes registers all booking routes on the given router group.
func (h *BookingHandler) RegisterRoutes(r *gin.RouterGroup, jwtManager *auth.JWTManager) {
	bookings := r.Group("/bookings")
	bookings.Use(middleware.Auth(jwtManager))
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.ListMine)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/payment", h.CompletePayment)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.GET("/:id/checkout/preview", h.PreviewCheckout)

		staff := middleware.RequireRole(auth.RoleStaff)
		bookings.POST("/:id/checkin", staff, h.CheckIn)
		bookings.POST("/:id/checkout", staff, h.CheckOut)
		bookings.POST("/:id/complete", staff, h.Complete)
	}
}

// Create handles POST /api/v1/bookings
func (h *BookingHandler) Create(c *gin.Context) {
	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	result, err := h.bookings.Create(c.Request.Context(), req)
	if err != nil {
		var unavailable *application.RoomUnavailableError
		if errors.As(err, &unavailable) {
			h.metrics.BookingConflict()
		}
		Error(c, err)
		return
	}

	h.metrics.BookingCreated(len(result.Bookings))
	Created(c, result)
}

// Get handles GET /api/v1/bookings/:id
func (h *BookingHandler) Get(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	dto, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dto)
}

// ListMine handles GET /api/v1/bookings and returns the caller's bookings.
func (h *BookingHandler) ListMine(c *gin.Context) {
	guestID, ok := middleware.GetUserID(c)
	if !ok {
		BadRequest(c, "missing user identity")
		return
	}

	dtos, err := h.bookings.ListGuestBookings(c.Request.Context(), guestID)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dtos)
}

// CompletePayment handles POST /api/v1/bookings/:id/payment
func (h *BookingHandler) CompletePayment(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req application.CompletePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	dto, err := h.payments.CompletePayment(c.Request.Context(), id, req)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dto)
}

// Cancel handles POST /api/v1/bookings/:id/cancel
func (h *BookingHandler) Cancel(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	dto, err := h.payments.CancelBooking(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dto)
}

// CheckIn handles POST /api/v1/bookings/:id/checkin
func (h *BookingHandler) CheckIn(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	dto, err := h.checkInOut.CheckIn(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dto)
}

// PreviewCheckout handles GET /api/v1/bookings/:id/checkout/preview
//
// It reports the invoice the guest would owe if they checked out at the
// given time (query param "at", default now) without changing any state.
func (h *BookingHandler) PreviewCheckout(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	at, ok := checkoutTime(c)
	if !ok {
		return
	}

	invoice, err := h.checkInOut.PreviewCheckout(c.Request.Context(), id, at)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, invoice)
}

// CheckOut handles POST /api/v1/bookings/:id/checkout
func (h *BookingHandler) CheckOut(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	at, ok := checkoutTime(c)
	if !ok {
		return
	}

	invoice, err := h.checkInOut.CheckOut(c.Request.Context(), id, at)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, invoice)
}

// Complete handles POST /api/v1/bookings/:id/complete
func (h *BookingHandler) Complete(c *gin.Context) {
	id, ok := bookingID(c)
	if !ok {
		return
	}

	dto, err := h.checkInOut.Complete(c.Request.Context(), id)
	if err != nil {
		Error(c, err)
		return
	}

	Success(c, dto)
}

func bookingID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		BadRequest(c, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}

func checkoutTime(c *gin.Context) (time.Time, bool) {
	raw := c.Query("at")
	if raw == "" {
		return time.Now(), true
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		BadRequest(c, "at must be RFC3339")
		return time.Time{}, false
	}
	return at, true
}
