package services

import (
	"context"

	"delivery-api/apperrors"
	"delivery-api/models"
	"delivery-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutItem is one cart line as submitted by the client.
type CheckoutItem struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity" binding:"required,min=1"`
}

// CheckoutRequest is the client-submitted cart: one restaurant, one delivery
// address, a payment method and at least one line item. It is consumed once
// and never persisted as-is.
type CheckoutRequest struct {
	RestaurantID  uuid.UUID            `json:"restaurant_id" binding:"required"`
	AddressID     uuid.UUID            `json:"address_id" binding:"required"`
	PaymentMethod models.PaymentMethod `json:"payment_method" binding:"required"`
	Items         []CheckoutItem       `json:"items" binding:"dive"`
}

// CheckoutService turns carts into priced, immutable orders. Prices and the
// address snapshot are frozen here; nothing downstream recomputes them.
type CheckoutService struct {
	orders    repository.OrderRepository
	catalog   repository.CatalogReader
	addresses repository.AddressReader
	log       *zap.Logger
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(orders repository.OrderRepository, catalog repository.CatalogReader, addresses repository.AddressReader, log *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		catalog:   catalog,
		addresses: addresses,
		log:       log,
	}
}

// Checkout validates the cart against the live catalog, freezes per-line unit
// prices plus the restaurant's delivery fee into a new pending order, and
// persists order and lines as one atomic unit. Any failure leaves no rows
// behind.
func (s *CheckoutService) Checkout(ctx context.Context, clientID uuid.UUID, req *CheckoutRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.EmptyCart()
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, apperrors.ValidationCode("INVALID_PAYMENT_METHOD", "unknown payment method")
	}

	restaurant, err := s.catalog.GetRestaurant(ctx, req.RestaurantID)
	if err != nil {
		return nil, err
	}
	if !restaurant.IsOpen {
		return nil, apperrors.RestaurantClosed(restaurant.ID.String())
	}

	address, err := s.addresses.GetClientAddress(ctx, req.AddressID)
	if err != nil {
		if apperrors.IsKind(err, apperrors.KindNotFound) {
			return nil, apperrors.ValidationCode("INVALID_ADDRESS", "delivery address not found")
		}
		return nil, err
	}
	if address.ClientID != clientID {
		return nil, apperrors.ValidationCode("INVALID_ADDRESS", "delivery address does not belong to this client")
	}

	orderID := uuid.New()
	lines := make([]models.OrderLine, 0, len(req.Items))
	subtotal := decimal.Zero
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, apperrors.ValidationCode("INVALID_QUANTITY", "line quantity must be at least 1")
		}
		menuItem, err := s.catalog.GetMenuItem(ctx, item.MenuItemID)
		if err != nil {
			return nil, err
		}
		if menuItem.RestaurantID != req.RestaurantID {
			return nil, apperrors.ForeignRestaurant(menuItem.ID.String())
		}
		if !menuItem.Available {
			return nil, apperrors.ItemUnavailable(menuItem.ID.String())
		}

		line := models.OrderLine{
			ID:         uuid.New(),
			OrderID:    orderID,
			MenuItemID: menuItem.ID,
			ItemName:   menuItem.Name,
			Quantity:   item.Quantity,
			UnitPrice:  menuItem.Price,
		}
		subtotal = subtotal.Add(line.Subtotal())
		lines = append(lines, line)
	}

	order := &models.Order{
		ID:                orderID,
		ClientID:          clientID,
		RestaurantID:      restaurant.ID,
		AddressID:         address.ID,
		AddressStreet:     address.Street,
		AddressCity:       address.City,
		AddressPostalCode: address.PostalCode,
		Status:            models.StatusPending,
		PaymentMethod:     req.PaymentMethod,
		DeliveryFee:       restaurant.DeliveryFee,
		Total:             subtotal.Add(restaurant.DeliveryFee),
		Lines:             lines,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Error("failed to persist order",
			zap.String("client_id", clientID.String()),
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.Error(err))
		return nil, err
	}

	s.log.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("client_id", clientID.String()),
		zap.String("total", order.Total.String()))

	return s.orders.FindByID(ctx, order.ID)
}
