package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hanco-rental/service-booking/internal/domain"
	branchDomain "github.com/hanco-rental/service-booking/internal/domain/branch"
)

// BranchModel is the GORM model for the branches table.
type BranchModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"not null;size:100"`
	City      string    `gorm:"not null;size:50;index"`
	Address   string    `gorm:"size:200"`
	Latitude  float64   `gorm:""`
	Longitude float64   `gorm:""`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BranchModel) TableName() string {
	return "branches"
}

// GormBranchRepository is the GORM-based implementation of BranchRepository.
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository.
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID retrieves a branch by its unique identifier.
func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*branchDomain.Branch, error) {
	var model BranchModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Branch", id.String())
		}
		return nil, domain.NewInfrastructureError("failed to find branch by ID", err)
	}
	return toDomainBranch(&model), nil
}

// Exists reports whether a branch with the given ID exists.
func (r *GormBranchRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&BranchModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, domain.NewInfrastructureError("failed to check branch existence", err)
	}
	return count > 0, nil
}

// List retrieves branches, optionally filtered by city, with pagination.
func (r *GormBranchRepository) List(ctx context.Context, city string, page, limit int) ([]*branchDomain.Branch, int64, error) {
	query := r.db.WithContext(ctx).Model(&BranchModel{})
	if city != "" {
		query = query.Where("city = ?", city)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to count branches", err)
	}

	var models []BranchModel
	offset := (page - 1) * limit
	if err := query.
		Order("name ASC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to list branches", err)
	}

	branches := make([]*branchDomain.Branch, len(models))
	for i := range models {
		branches[i] = toDomainBranch(&models[i])
	}
	return branches, total, nil
}

func toDomainBranch(m *BranchModel) *branchDomain.Branch {
	return &branchDomain.Branch{
		ID:        m.ID,
		Name:      m.Name,
		City:      m.City,
		Address:   m.Address,
		Latitude:  m.Latitude,
		Longitude: m.Longitude,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
