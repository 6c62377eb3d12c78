package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/application"
	bookingDomain "github.com/hanco-rental/service-booking/internal/domain/booking"
	"github.com/hanco-rental/service-booking/internal/response"
)

// AdminHandler handles back-office booking endpoints.
type AdminHandler struct {
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(bookings *application.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{bookings: bookings, logger: logger}
}

// RegisterRoutes registers admin routes on the given group. The caller is
// expected to have already applied the admin role guard.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/bookings", h.ListBookings)
	rg.GET("/stats/bookings", h.BookingStats)
	rg.POST("/bookings/:id/activate", h.Activate)
	rg.POST("/bookings/:id/complete", h.Complete)
}

// ListBookings handles GET /admin/bookings with status and start-date filters.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	page, limit := parsePagination(c)

	var filter bookingDomain.ListFilter
	if raw := c.Query("status"); raw != "" {
		status, err := bookingDomain.ParseBookingStatus(raw)
		if err != nil {
			response.BadRequest(c, err.Error())
			return
		}
		filter.Status = status
	}
	if raw := c.Query("start_date_from"); raw != "" {
		d, err := bookingDomain.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "invalid start_date_from: expected YYYY-MM-DD")
			return
		}
		filter.StartDateFrom = d
	}
	if raw := c.Query("start_date_to"); raw != "" {
		d, err := bookingDomain.ParseDate(raw)
		if err != nil {
			response.BadRequest(c, "invalid start_date_to: expected YYYY-MM-DD")
			return
		}
		filter.StartDateTo = d
	}

	items, total, err := h.bookings.ListAllBookings(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, items, total, page, limit)
}

// BookingStats handles GET /admin/stats/bookings.
func (h *AdminHandler) BookingStats(c *gin.Context) {
	stats, err := h.bookings.GetBookingStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, stats)
}

// Activate handles POST /admin/bookings/:id/activate (vehicle handed over).
func (h *AdminHandler) Activate(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	booking, err := h.bookings.ActivateBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, booking)
}

// Complete handles POST /admin/bookings/:id/complete (vehicle returned).
func (h *AdminHandler) Complete(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	booking, err := h.bookings.CompleteBooking(c.Request.Context(), bookingID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, booking)
}
