package reservation

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) CheckAvailability(c *gin.Context) {
	screenID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || screenID <= 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid screen ID")
		return
	}
	var q AvailabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}
	q.ScreenID = screenID

	res, err := h.service.CheckAvailability(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, res)
}

func (h *Handler) Quote(c *gin.Context) {
	var req QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	price, err := h.service.Quote(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, price)
}

// CreateBooking is the customer booking flow. Discounts are granted by
// staff only.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.Discount = 0
	req.CreatedBy = 0
	h.create(c, req)
}

// CreateStaffBooking books at the desk: the discount is honoured and the
// staff member is recorded as creator.
func (h *Handler) CreateStaffBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	req.CreatedBy = c.GetInt64("user_id")
	h.create(c, req)
}

func (h *Handler) create(c *gin.Context, req CreateBookingRequest) {
	b, err := h.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"booking": b})
}

func (h *Handler) GetBooking(c *gin.Context) {
	b, err := h.service.GetBooking(c.Request.Context(), c.Param("code"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) EditBooking(c *gin.Context) {
	var req EditBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, err := h.service.EditBooking(c.Request.Context(), c.Param("code"), req, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CancelBooking(c *gin.Context) {
	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, err := h.service.CancelBooking(c.Request.Context(), c.Param("code"), req, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) CompleteBooking(c *gin.Context) {
	b, err := h.service.CompleteBooking(c.Request.Context(), c.Param("code"), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) MarkNoShow(c *gin.Context) {
	b, err := h.service.MarkNoShow(c.Request.Context(), c.Param("code"), c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) RecordPayment(c *gin.Context) {
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, err := h.service.RecordPayment(c.Request.Context(), c.Param("code"), req, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

func (h *Handler) UpdateRefundStatus(c *gin.Context) {
	var req RefundStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	b, err := h.service.UpdateRefundStatus(c.Request.Context(), c.Param("code"), req, c.GetInt64("user_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"booking": b})
}

// writeError maps engine errors onto the response envelope. Pricing and
// storage faults are internal; their details stay in the log.
func writeError(c *gin.Context, err error) {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		if len(verr.Fields) > 0 {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Msg, verr.Fields)
			return
		}
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Msg)
	case errors.Is(err, ErrConflict):
		response.Error(c, http.StatusConflict, "BOOKING_CONFLICT", ErrConflict.Error())
	case errors.Is(err, ErrInvalidStatusTransition):
		response.Error(c, http.StatusConflict, "INVALID_STATUS_TRANSITION", "Booking status does not allow this action")
	case errors.Is(err, ErrNotFound):
		response.Error(c, http.StatusNotFound, "NOT_FOUND", "Booking not found")
	case errors.Is(err, ErrContention):
		response.Error(c, http.StatusServiceUnavailable, "BOOKING_BUSY", "The booking system is busy, please retry")
	case errors.Is(err, ErrPricing):
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "PRICING_ERROR", "We could not price this booking, please contact support")
	default:
		_ = c.Error(err)
		log.Printf("booking_request_failed path=%s error=%q", c.Request.URL.Path, err.Error())
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
