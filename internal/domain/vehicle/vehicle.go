package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the fleet status of a vehicle.
type VehicleStatus string

const (
	StatusAvailable   VehicleStatus = "available"
	StatusRented      VehicleStatus = "rented"
	StatusMaintenance VehicleStatus = "maintenance"
	StatusInactive    VehicleStatus = "inactive"
)

// IsValid returns true if the status is a recognized vehicle status.
func (s VehicleStatus) IsValid() bool {
	switch s {
	case StatusAvailable, StatusRented, StatusMaintenance, StatusInactive:
		return true
	}
	return false
}

// Bookable returns true if a vehicle in this status can accept bookings.
// A rented vehicle is still bookable: it currently has other bookings but is
// fundamentally rentable; the date-overlap check decides the rest.
func (s VehicleStatus) Bookable() bool {
	return s == StatusAvailable || s == StatusRented
}

// String returns the string representation of the status.
func (s VehicleStatus) String() string {
	return string(s)
}

// ParseVehicleStatus converts a string to a VehicleStatus, returning an error if invalid.
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	status := VehicleStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid vehicle status: %s", s)
	}
	return status, nil
}

// Vehicle is a read model of a fleet vehicle. The booking core only reads
// vehicles; the fleet management surface owns writes.
type Vehicle struct {
	ID                 uuid.UUID     `json:"id"`
	Name               string        `json:"name"`
	Brand              string        `json:"brand"`
	Category           string        `json:"category"`
	City               string        `json:"city"`
	Status             VehicleStatus `json:"status"`
	BaseDailyRateCents int64         `json:"base_daily_rate_cents"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}
