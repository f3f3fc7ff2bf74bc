package reservation

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the customer-facing routes on public and the
// booking desk routes on staff. staff must already carry auth middleware.
func (h *Handler) RegisterRoutes(public, staff *gin.RouterGroup) {
	public.GET("/screens/:id/availability", h.CheckAvailability)
	public.POST("/bookings/quote", h.Quote)
	public.POST("/bookings", h.CreateBooking)

	bookings := staff.Group("/bookings")
	{
		bookings.POST("/desk", h.CreateStaffBooking)
		bookings.GET("/:code", h.GetBooking)
		bookings.PATCH("/:code", h.EditBooking)
		bookings.POST("/:code/cancel", h.CancelBooking)
		bookings.POST("/:code/complete", h.CompleteBooking)
		bookings.POST("/:code/no-show", h.MarkNoShow)
		bookings.POST("/:code/payments", h.RecordPayment)
		bookings.PATCH("/:code/refund", h.UpdateRefundStatus)
	}
}
