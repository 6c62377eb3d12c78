package branch

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Branch is a read model of a rental branch used for pickup and dropoff.
type Branch struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	City      string    `json:"city"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BranchRepository defines the read contract for branches.
type BranchRepository interface {
	// FindByID retrieves a branch by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)

	// Exists reports whether a branch with the given ID exists.
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// List retrieves branches, optionally filtered by city, with pagination.
	List(ctx context.Context, city string, page, limit int) ([]*Branch, int64, error)
}
