package services

import (
	"context"

	"delivery-api/apperrors"
	"delivery-api/models"
	"delivery-api/repository"

	"github.com/google/uuid"
)

// OrderAccess is the single ownership gate in front of every order read.
// Client and restaurant reads require the order to reference them; deliverer
// reads require the order to be assigned to them.
type OrderAccess struct {
	orders repository.OrderRepository
}

// NewOrderAccess creates a new OrderAccess
func NewOrderAccess(orders repository.OrderRepository) *OrderAccess {
	return &OrderAccess{orders: orders}
}

// GetOrder resolves the order with its lines and enforces ownership.
func (g *OrderAccess) GetOrder(ctx context.Context, orderID uuid.UUID, role models.Role, actorID uuid.UUID) (*models.Order, error) {
	order, err := g.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !actorOwns(order, role, actorID) {
		return nil, apperrors.Forbidden("you do not have permission to access this order")
	}
	return order, nil
}

// ListOrders returns the actor's own orders, newest first.
func (g *OrderAccess) ListOrders(ctx context.Context, role models.Role, actorID uuid.UUID, page, limit int) ([]models.Order, int64, error) {
	return g.orders.FindByActor(ctx, role, actorID, page, limit)
}

// actorOwns applies the ownership rules shared by reads and transitions.
func actorOwns(order *models.Order, role models.Role, actorID uuid.UUID) bool {
	switch role {
	case models.RoleClient:
		return order.ClientID == actorID
	case models.RoleRestaurant:
		return order.RestaurantID == actorID
	case models.RoleDeliverer:
		return order.DelivererID != nil && *order.DelivererID == actorID
	default:
		return false
	}
}
