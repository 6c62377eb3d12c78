package application

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hanco-rental/service-booking/internal/domain"
	vehicleDomain "github.com/hanco-rental/service-booking/internal/domain/vehicle"
)

// VehicleService exposes the read-only vehicle catalog.
type VehicleService struct {
	vehicles vehicleDomain.VehicleRepository
	logger   *zap.Logger
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicles vehicleDomain.VehicleRepository, logger *zap.Logger) *VehicleService {
	return &VehicleService{vehicles: vehicles, logger: logger}
}

// GetVehicle retrieves a single vehicle by ID.
func (s *VehicleService) GetVehicle(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	return s.vehicles.FindByID(ctx, id)
}

// ListVehicles returns a filtered, paginated vehicle catalog page.
func (s *VehicleService) ListVehicles(ctx context.Context, filter vehicleDomain.ListFilter, page, limit int) (*domain.PaginatedResult[*vehicleDomain.Vehicle], error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, domain.NewValidationError("invalid vehicle status: " + filter.Status.String())
	}

	vehicles, total, err := s.vehicles.List(ctx, filter, page, limit)
	if err != nil {
		return nil, err
	}

	result := domain.NewPaginatedResult(vehicles, total, page, limit)
	return &result, nil
}
