package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hanco-rental/service-booking/internal/domain"
	bookingDomain "github.com/hanco-rental/service-booking/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table. Dates are stored as
// plain YYYY-MM-DD strings; normalization to domain dates happens here at the
// storage-read edge and nowhere else.
type BookingModel struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	RenterID          uuid.UUID  `gorm:"type:uuid;index;not null;uniqueIndex:idx_bookings_renter_idem_key"`
	VehicleID         uuid.UUID  `gorm:"type:uuid;index;not null"`
	StartDate         string     `gorm:"not null;size:10"`
	EndDate           string     `gorm:"not null;size:10"`
	PickupBranchID    uuid.UUID  `gorm:"type:uuid;not null"`
	DropoffBranchID   uuid.UUID  `gorm:"type:uuid;not null"`
	InsuranceSelected bool       `gorm:"not null;default:false"`
	TotalPriceCents   int64      `gorm:"not null"`
	InsuranceCents    int64      `gorm:"not null;default:0"`
	PaymentMode       string     `gorm:"not null;size:10"`
	Status            string     `gorm:"not null;size:20;index"`
	PaymentStatus     string     `gorm:"not null;size:20"`
	IdempotencyKey    *string    `gorm:"size:64;uniqueIndex:idx_bookings_renter_idem_key"`
	CancelledAt       *time.Time `gorm:""`
	CancelNote        string     `gorm:"size:500"`
	Version           int64      `gorm:"not null;default:1"`
	CreatedAt         time.Time  `gorm:"not null"`
	UpdatedAt         time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// blockingStatusStrings is the SQL-side form of the blocking status set.
var blockingStatusStrings = func() []string {
	out := make([]string, len(bookingDomain.BlockingStatuses))
	for i, s := range bookingDomain.BlockingStatuses {
		out[i] = string(s)
	}
	return out
}()

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, domain.NewInfrastructureError("failed to find booking by ID", err)
	}
	return toDomainBooking(&model)
}

// FindByIdempotencyKey retrieves the booking created by renterID under key.
func (r *GormBookingRepository) FindByIdempotencyKey(ctx context.Context, renterID uuid.UUID, key string) (*bookingDomain.Booking, error) {
	var model BookingModel
	err := r.db.WithContext(ctx).
		Where("renter_id = ? AND idempotency_key = ?", renterID, key).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", key)
		}
		return nil, domain.NewInfrastructureError("failed to find booking by idempotency key", err)
	}
	return toDomainBooking(&model)
}

// FindByRenterID retrieves a renter's bookings newest first, optionally
// filtered by status.
func (r *GormBookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, status bookingDomain.BookingStatus, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{}).Where("renter_id = ?", renterID)
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to count renter bookings", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to find renter bookings", err)
	}

	return toDomainBookings(models, total)
}

// FindBlockingByVehicleID retrieves all bookings for the vehicle whose status
// counts as an active reservation.
func (r *GormBookingRepository) FindBlockingByVehicleID(ctx context.Context, vehicleID uuid.UUID) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ? AND status IN ?", vehicleID, blockingStatusStrings).
		Find(&models).Error
	if err != nil {
		return nil, domain.NewInfrastructureError("failed to query blocking bookings", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// CreateIfAvailable persists the booking inside a transaction that first
// takes a row lock on the vehicle and re-checks every blocking booking for a
// date overlap. The vehicle row is the per-vehicle lock record: two
// concurrent admissions for the same vehicle serialize on it, so the second
// transaction observes the first one's booking in its re-scan and aborts
// with a Conflict instead of double-booking.
func (r *GormBookingRepository) CreateIfAvailable(ctx context.Context, bk *bookingDomain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var vm VehicleModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", bk.VehicleID()).
			First(&vm).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NewNotFoundError("Vehicle", bk.VehicleID().String())
			}
			return domain.NewInfrastructureError("failed to lock vehicle", err)
		}

		vehicleStatus, err := toVehicleStatus(vm.Status)
		if err != nil {
			return domain.NewInfrastructureError("corrupt vehicle record", err)
		}
		if !vehicleStatus.Bookable() {
			return domain.NewConflictError(fmt.Sprintf("vehicle is not bookable: status is %q", vm.Status))
		}

		var models []BookingModel
		err = tx.
			Where("vehicle_id = ? AND status IN ?", bk.VehicleID(), blockingStatusStrings).
			Find(&models).Error
		if err != nil {
			return domain.NewInfrastructureError("failed to re-check vehicle bookings", err)
		}

		conflicts := 0
		for i := range models {
			existing, err := toDateRange(models[i].StartDate, models[i].EndDate)
			if err != nil {
				return domain.NewInfrastructureError("corrupt booking dates", err)
			}
			if bk.Dates().Overlaps(existing) {
				conflicts++
			}
		}
		if conflicts > 0 {
			return domain.NewConflictError(fmt.Sprintf("vehicle no longer available for selected dates: %d conflicting booking(s)", conflicts))
		}

		if err := tx.Create(toBookingModel(bk)).Error; err != nil {
			return domain.NewInfrastructureError("failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) {
			return de
		}
		return domain.NewInfrastructureError("booking transaction failed", err)
	}
	return nil
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	model := toBookingModel(bk)

	// Only update if the version matches (current version - 1, since
	// IncrementVersion was called before persisting).
	expectedVersion := bk.Version() - 1
	result := r.db.WithContext(ctx).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"status":         model.Status,
			"payment_status": model.PaymentStatus,
			"cancelled_at":   model.CancelledAt,
			"cancel_note":    model.CancelNote,
			"version":        model.Version,
			"updated_at":     model.UpdatedAt,
		})

	if result.Error != nil {
		return domain.NewInfrastructureError("failed to update booking", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// ListAll retrieves bookings across all renters with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, filter bookingDomain.ListFilter, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	query := r.db.WithContext(ctx).Model(&BookingModel{})
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if !filter.StartDateFrom.IsZero() {
		query = query.Where("start_date >= ?", filter.StartDateFrom.String())
	}
	if !filter.StartDateTo.IsZero() {
		query = query.Where("start_date <= ?", filter.StartDateTo.String())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to count bookings", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, domain.NewInfrastructureError("failed to list bookings", err)
	}

	return toDomainBookings(models, total)
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, domain.NewInfrastructureError("failed to count by status", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// --- Conversion Helpers ---

func toBookingModel(bk *bookingDomain.Booking) *BookingModel {
	var idemKey *string
	if k := bk.IdempotencyKey(); k != "" {
		idemKey = &k
	}

	return &BookingModel{
		ID:                bk.ID(),
		RenterID:          bk.RenterID(),
		VehicleID:         bk.VehicleID(),
		StartDate:         bk.Dates().Start.String(),
		EndDate:           bk.Dates().End.String(),
		PickupBranchID:    bk.PickupBranchID(),
		DropoffBranchID:   bk.DropoffBranchID(),
		InsuranceSelected: bk.InsuranceSelected(),
		TotalPriceCents:   bk.TotalPriceCents(),
		InsuranceCents:    bk.InsuranceCents(),
		PaymentMode:       string(bk.PaymentMode()),
		Status:            string(bk.Status()),
		PaymentStatus:     string(bk.PaymentStatus()),
		IdempotencyKey:    idemKey,
		CancelledAt:       bk.CancelledAt(),
		CancelNote:        bk.CancelNote(),
		Version:           bk.Version(),
		CreatedAt:         bk.CreatedAt(),
		UpdatedAt:         bk.UpdatedAt(),
	}
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	dates, err := toDateRange(m.StartDate, m.EndDate)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", m.ID, err)
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", m.ID, err)
	}

	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", m.ID, err)
	}

	paymentMode, err := bookingDomain.ParsePaymentMode(m.PaymentMode)
	if err != nil {
		return nil, fmt.Errorf("booking %s: %w", m.ID, err)
	}

	var idemKey string
	if m.IdempotencyKey != nil {
		idemKey = *m.IdempotencyKey
	}

	return bookingDomain.ReconstructBooking(
		m.ID,
		m.RenterID,
		m.VehicleID,
		dates,
		m.PickupBranchID,
		m.DropoffBranchID,
		m.InsuranceSelected,
		m.TotalPriceCents,
		m.InsuranceCents,
		paymentMode,
		status,
		paymentStatus,
		idemKey,
		m.CancelledAt,
		m.CancelNote,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}

func toDomainBookings(models []BookingModel, total int64) ([]*bookingDomain.Booking, int64, error) {
	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bk, err := toDomainBooking(&models[i])
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

func toDateRange(start, end string) (bookingDomain.DateRange, error) {
	startDate, err := bookingDomain.ParseDate(start)
	if err != nil {
		return bookingDomain.DateRange{}, err
	}
	endDate, err := bookingDomain.ParseDate(end)
	if err != nil {
		return bookingDomain.DateRange{}, err
	}
	return bookingDomain.NewDateRange(startDate, endDate)
}
