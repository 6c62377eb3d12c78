package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanco-rental/service-booking/internal/domain"
	vehicleDomain "github.com/hanco-rental/service-booking/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table. The booking service
// only reads it; writes belong to the fleet management service. The row also
// serves as the per-vehicle lock record for the admission transaction.
type VehicleModel struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name               string    `gorm:"not null;size:100"`
	Brand              string    `gorm:"not null;size:50"`
	Category           string    `gorm:"not null;size:30;index"`
	City               string    `gorm:"not null;size:50;index"`
	Status             string    `gorm:"not null;size:20;index"`
	BaseDailyRateCents int64     `gorm:"not null"`
	CreatedAt          time.Time `gorm:"not null"`
	UpdatedAt          time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of VehicleRepository.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, domain.NewInfrastructureError("failed to find vehicle by ID", err)
	}
	return toDomainVehicle(&model)
}

// List retrieves vehicles matching the filter with pagination.
func (r *GormVehicleRepository) List(ctx context.Context, filter vehicleDomain.ListFilter, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&VehicleModel{})
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to count vehicles", err)
	}

	var models []VehicleModel
	offset := (page - 1) * limit
	if err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to list vehicles", err)
	}

	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i := range models {
		v, err := toDomainVehicle(&models[i])
		if err != nil {
			return nil, 0, err
		}
		vehicles[i] = v
	}
	return vehicles, total, nil
}

// --- Conversion Helpers ---

func toVehicleStatus(s string) (vehicleDomain.VehicleStatus, error) {
	return vehicleDomain.ParseVehicleStatus(s)
}

func toDomainVehicle(m *VehicleModel) (*vehicleDomain.Vehicle, error) {
	status, err := toVehicleStatus(m.Status)
	if err != nil {
		return nil, domain.NewInfrastructureError("corrupt vehicle record", err)
	}
	return &vehicleDomain.Vehicle{
		ID:                 m.ID,
		Name:               m.Name,
		Brand:              m.Brand,
		Category:           m.Category,
		City:               m.City,
		Status:             status,
		BaseDailyRateCents: m.BaseDailyRateCents,
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}, nil
}
