package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/application"
	bookingDomain "github.com/hanco-rental/service-booking/internal/domain/booking"
	vehicleDomain "github.com/hanco-rental/service-booking/internal/domain/vehicle"
	"github.com/hanco-rental/service-booking/internal/response"
)

// VehicleHandler handles vehicle catalog HTTP endpoints.
type VehicleHandler struct {
	vehicles *application.VehicleService
	bookings *application.BookingService
	logger   *zap.Logger
}

// NewVehicleHandler creates a new VehicleHandler.
func NewVehicleHandler(vehicles *application.VehicleService, bookings *application.BookingService, logger *zap.Logger) *VehicleHandler {
	return &VehicleHandler{vehicles: vehicles, bookings: bookings, logger: logger}
}

// RegisterRoutes registers vehicle routes on the given group.
func (h *VehicleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vehicles := rg.Group("/vehicles")
	{
		vehicles.GET("", h.List)
		vehicles.GET("/:id", h.Get)
		vehicles.GET("/:id/availability", h.Availability)
	}
}

// List handles GET /vehicles with optional city/category/status filters.
func (h *VehicleHandler) List(c *gin.Context) {
	page, limit := parsePagination(c)
	filter := vehicleDomain.ListFilter{
		City:     c.Query("city"),
		Category: c.Query("category"),
		Status:   vehicleDomain.VehicleStatus(c.Query("status")),
	}

	result, err := h.vehicles.ListVehicles(c.Request.Context(), filter, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Paginated(c, result.Items, result.Total, result.Page, result.Limit)
}

// Get handles GET /vehicles/:id.
func (h *VehicleHandler) Get(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	vehicle, err := h.vehicles.GetVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, vehicle)
}

// Availability handles GET /vehicles/:id/availability?start_date=&end_date=.
func (h *VehicleHandler) Availability(c *gin.Context) {
	vehicleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid vehicle ID")
		return
	}

	start, err := bookingDomain.ParseDate(c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "invalid start_date: expected YYYY-MM-DD")
		return
	}
	end, err := bookingDomain.ParseDate(c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, "invalid end_date: expected YYYY-MM-DD")
		return
	}

	availability, err := h.bookings.CheckAvailability(c.Request.Context(), vehicleID, start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, availability)
}
