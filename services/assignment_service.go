package services

import (
	"context"

	"delivery-api/apperrors"
	"delivery-api/models"
	"delivery-api/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AssignmentService binds deliverers to orders and returns them to the pool.
// The bind updates order and deliverer rows in one transaction so the
// exclusivity invariant (one live order per on_delivery deliverer) holds at
// every point in time.
type AssignmentService struct {
	orders     repository.OrderRepository
	deliverers repository.DelivererRepository
	log        *zap.Logger
}

// NewAssignmentService creates a new AssignmentService
func NewAssignmentService(orders repository.OrderRepository, deliverers repository.DelivererRepository, log *zap.Logger) *AssignmentService {
	return &AssignmentService{
		orders:     orders,
		deliverers: deliverers,
		log:        log,
	}
}

// Assign binds the deliverer to the order on behalf of the restaurant. The
// order must belong to the restaurant and be ready or already out for
// delivery (re-assignment mid-route releases the previous deliverer in the
// same transaction), and the deliverer must be in the available pool.
func (s *AssignmentService) Assign(ctx context.Context, orderID, restaurantID, delivererID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RestaurantID != restaurantID {
		return nil, apperrors.Forbidden("order belongs to a different restaurant")
	}
	if order.Status != models.StatusReady && order.Status != models.StatusOutForDelivery {
		return nil, apperrors.InvalidState(string(order.Status))
	}

	deliverer, err := s.deliverers.FindByID(ctx, delivererID)
	if err != nil {
		return nil, err
	}
	if deliverer.Availability != models.AvailabilityAvailable {
		return nil, apperrors.DelivererUnavailable(deliverer.ID.String())
	}

	if err := s.orders.AssignDelivererCAS(ctx, order.ID, order.Status, order.DelivererID, deliverer.ID); err != nil {
		return nil, err
	}

	s.log.Info("deliverer assigned",
		zap.String("order_id", order.ID.String()),
		zap.String("deliverer_id", deliverer.ID.String()))

	return s.orders.FindByID(ctx, order.ID)
}

// Release puts the deliverer back into the available pool. Idempotent.
func (s *AssignmentService) Release(ctx context.Context, delivererID uuid.UUID) error {
	return s.deliverers.Release(ctx, delivererID)
}

// SetAvailability lets a deliverer toggle themselves between available and
// unavailable. on_delivery is reserved for the assignment path.
func (s *AssignmentService) SetAvailability(ctx context.Context, delivererID uuid.UUID, availability models.Availability) error {
	if availability != models.AvailabilityAvailable && availability != models.AvailabilityUnavailable {
		return apperrors.ValidationCode("INVALID_AVAILABILITY", "availability must be available or unavailable")
	}
	return s.deliverers.SetAvailability(ctx, delivererID, availability)
}
