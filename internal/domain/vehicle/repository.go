package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows vehicle list queries.
type ListFilter struct {
	City     string
	Category string
	Status   VehicleStatus
}

// VehicleRepository defines the read contract for vehicles.
type VehicleRepository interface {
	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// List retrieves vehicles matching the filter with pagination.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Vehicle, int64, error)
}
