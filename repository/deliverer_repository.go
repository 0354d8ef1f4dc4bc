package repository

import (
	"context"
	"errors"

	"delivery-api/apperrors"
	"delivery-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DelivererRepository defines deliverer pool persistence.
type DelivererRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Deliverer, error)
	// Release puts the deliverer back into the available pool. Idempotent:
	// releasing an already-available deliverer is a no-op.
	Release(ctx context.Context, id uuid.UUID) error
	// SetAvailability toggles between available and unavailable. It never
	// touches a deliverer who is on_delivery; that state belongs to the
	// assignment coordinator.
	SetAvailability(ctx context.Context, id uuid.UUID, availability models.Availability) error
}

// GormDelivererRepository implements DelivererRepository using GORM
type GormDelivererRepository struct {
	db *gorm.DB
}

// NewGormDelivererRepository creates a new instance of GormDelivererRepository
func NewGormDelivererRepository(db *gorm.DB) *GormDelivererRepository {
	return &GormDelivererRepository{db: db}
}

func (r *GormDelivererRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Deliverer, error) {
	var deliverer models.Deliverer
	err := r.db.WithContext(ctx).First(&deliverer, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("deliverer", id.String())
		}
		return nil, apperrors.Transient(err)
	}
	return &deliverer, nil
}

func (r *GormDelivererRepository) Release(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.Deliverer{}).
		Where("id = ?", id).
		Update("availability", models.AvailabilityAvailable).Error
	if err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *GormDelivererRepository) SetAvailability(ctx context.Context, id uuid.UUID, availability models.Availability) error {
	res := r.db.WithContext(ctx).
		Model(&models.Deliverer{}).
		Where("id = ? AND availability <> ?", id, models.AvailabilityOnDelivery).
		Update("availability", availability)
	if res.Error != nil {
		return apperrors.Transient(res.Error)
	}
	if res.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.InvalidState(string(models.AvailabilityOnDelivery))
	}
	return nil
}
