package services

import (
	"context"

	"delivery-api/apperrors"
	"delivery-api/models"
	"delivery-api/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TransitionService drives the order status state machine. Every mutation of
// order status in the system goes through Transition; the persisted write is
// compare-and-set so two racing transitions cannot both win.
type TransitionService struct {
	orders      repository.OrderRepository
	assignments *AssignmentService
	log         *zap.Logger
}

// NewTransitionService creates a new TransitionService
func NewTransitionService(orders repository.OrderRepository, assignments *AssignmentService, log *zap.Logger) *TransitionService {
	return &TransitionService{
		orders:      orders,
		assignments: assignments,
		log:         log,
	}
}

// Transition moves the order to the requested status on behalf of the actor.
// Ownership is checked first, then transition legality, then actor
// authorization for that specific edge. Entering a terminal status releases
// the assigned deliverer back to the pool.
func (s *TransitionService) Transition(ctx context.Context, orderID uuid.UUID, role models.Role, actorID uuid.UUID, requested models.OrderStatus) (*models.Order, error) {
	if !models.ValidStatus(requested) {
		return nil, apperrors.ValidationCode("INVALID_STATUS", "unknown order status")
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actorOwns(order, role, actorID) {
		return nil, apperrors.Forbidden("you do not have permission to modify this order")
	}

	current := order.Status
	if !models.CanTransition(current, requested) {
		return nil, apperrors.InvalidTransition(string(current), string(requested))
	}
	if !models.RoleMayTransition(role, current, requested) {
		return nil, apperrors.Forbidden("actor is not authorized for this transition")
	}

	if err := s.orders.UpdateStatusCAS(ctx, order.ID, current, requested); err != nil {
		return nil, err
	}

	s.log.Info("order transitioned",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(current)),
		zap.String("to", string(requested)),
		zap.String("actor_role", string(role)))

	if requested.Terminal() && order.DelivererID != nil {
		// The status write already committed; a failed release leaves the
		// deliverer busy until the next idempotent release retries it.
		if err := s.assignments.Release(ctx, *order.DelivererID); err != nil {
			s.log.Error("failed to release deliverer on terminal status",
				zap.String("order_id", order.ID.String()),
				zap.String("deliverer_id", order.DelivererID.String()),
				zap.Error(err))
		}
	}

	return s.orders.FindByID(ctx, order.ID)
}
