package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/application"
	"github.com/hanco-rental/service-booking/internal/middleware"
	"github.com/hanco-rental/service-booking/internal/response"
)

// BookingHandler handles booking HTTP endpoints.
type BookingHandler struct {
	service *application.BookingService
	logger  *zap.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(service *application.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{service: service, logger: logger}
}

// RegisterRoutes registers booking routes on the given authenticated group.
func (h *BookingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.Create)
		bookings.GET("", h.List)
		bookings.GET("/:id", h.Get)
		bookings.POST("/:id/confirm", h.Confirm)
		bookings.POST("/:id/cancel", h.Cancel)
		bookings.DELETE("/:id", h.Cancel)
	}
}

// Create handles POST /bookings. Clients may send an Idempotency-Key header
// to make retries after a timeout safe.
func (h *BookingHandler) Create(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req application.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	idempotencyKey := c.GetHeader("Idempotency-Key")

	booking, err := h.service.CreateBooking(c.Request.Context(), renterID, req, idempotencyKey)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, booking)
}

// List handles GET /bookings for the authenticated renter.
func (h *BookingHandler) List(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	page, limit := parsePagination(c)
	status := c.Query("status")

	result, err := h.service.ListBookings(c.Request.Context(), renterID, status, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Get handles GET /bookings/:id.
func (h *BookingHandler) Get(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	booking, err := h.service.GetBooking(c.Request.Context(), bookingID, renterID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, booking)
}

// Confirm handles POST /bookings/:id/confirm.
func (h *BookingHandler) Confirm(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	booking, err := h.service.ConfirmBooking(c.Request.Context(), bookingID, renterID, middleware.IsAdmin(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, booking)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// Cancel handles POST /bookings/:id/cancel and DELETE /bookings/:id.
func (h *BookingHandler) Cancel(c *gin.Context) {
	renterID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid booking ID")
		return
	}

	// The body is optional; DELETE requests typically carry none.
	var req cancelRequest
	_ = c.ShouldBindJSON(&req)

	booking, err := h.service.CancelBooking(c.Request.Context(), bookingID, renterID, middleware.IsAdmin(c), req.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, booking)
}

// parsePagination extracts page/limit query params with sane bounds.
func parsePagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
