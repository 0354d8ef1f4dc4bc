package repository

import (
	"context"
	"errors"

	"delivery-api/apperrors"
	"delivery-api/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderRepository defines order persistence. Multi-row writes run inside a
// single transaction; status updates are compare-and-set so concurrent
// transitions surface as conflicts instead of lost updates.
type OrderRepository interface {
	// Create persists the order and its lines as one atomic unit.
	Create(ctx context.Context, order *models.Order) error
	// FindByID loads the order with its lines.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	// FindByActor lists the orders visible to the actor, newest first.
	FindByActor(ctx context.Context, role models.Role, actorID uuid.UUID, page, limit int) ([]models.Order, int64, error)
	// UpdateStatusCAS moves the order from one status to another only if the
	// persisted status still matches from; a miss on a live row is a conflict.
	UpdateStatusCAS(ctx context.Context, orderID uuid.UUID, from, to models.OrderStatus) error
	// AssignDelivererCAS binds the deliverer to the order and marks them
	// on_delivery in one transaction, releasing the previous deliverer first
	// when re-assigning mid-route.
	AssignDelivererCAS(ctx context.Context, orderID uuid.UUID, expected models.OrderStatus, previous *uuid.UUID, delivererID uuid.UUID) error
}

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new instance of GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	// GORM inserts the lines with the parent inside one transaction, which is
	// exactly the all-or-nothing unit checkout requires.
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return apperrors.Transient(err)
	}
	return nil
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Lines").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("order", id.String())
		}
		return nil, apperrors.Transient(err)
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByActor(ctx context.Context, role models.Role, actorID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Order{})
	switch role {
	case models.RoleClient:
		query = query.Where("client_id = ?", actorID)
	case models.RoleRestaurant:
		query = query.Where("restaurant_id = ?", actorID)
	case models.RoleDeliverer:
		query = query.Where("deliverer_id = ?", actorID)
	default:
		return nil, 0, apperrors.Forbidden("unknown actor role")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Transient(err)
	}

	var orders []models.Order
	offset := (page - 1) * limit
	if err := query.
		Preload("Lines").
		Offset(offset).
		Limit(limit).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, 0, apperrors.Transient(err)
	}
	return orders, total, nil
}

func (r *GormOrderRepository) UpdateStatusCAS(ctx context.Context, orderID uuid.UUID, from, to models.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return apperrors.Transient(res.Error)
	}
	if res.RowsAffected == 0 {
		// The caller loaded this order moments ago, so a zero-row update
		// means the status moved underneath us, not that the row is gone.
		return apperrors.Conflict("order", orderID.String())
	}
	return nil
}

func (r *GormOrderRepository) AssignDelivererCAS(ctx context.Context, orderID uuid.UUID, expected models.OrderStatus, previous *uuid.UUID, delivererID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if previous != nil && *previous != delivererID {
			if err := tx.Model(&models.Deliverer{}).
				Where("id = ?", *previous).
				Update("availability", models.AvailabilityAvailable).Error; err != nil {
				return apperrors.Transient(err)
			}
		}

		res := tx.Model(&models.Deliverer{}).
			Where("id = ? AND availability = ?", delivererID, models.AvailabilityAvailable).
			Update("availability", models.AvailabilityOnDelivery)
		if res.Error != nil {
			return apperrors.Transient(res.Error)
		}
		if res.RowsAffected == 0 {
			return apperrors.DelivererUnavailable(delivererID.String())
		}

		res = tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, expected).
			Update("deliverer_id", delivererID)
		if res.Error != nil {
			return apperrors.Transient(res.Error)
		}
		if res.RowsAffected == 0 {
			// Rolls back the deliverer update above.
			return apperrors.Conflict("order", orderID.String())
		}
		return nil
	})
}
