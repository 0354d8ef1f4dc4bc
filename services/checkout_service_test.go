package services

import (
	"context"
	"testing"

	"delivery-api/apperrors"
	"delivery-api/models"
	"delivery-api/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type testEnv struct {
	db          *gorm.DB
	checkout    *CheckoutService
	transitions *TransitionService
	assignments *AssignmentService
	access      *OrderAccess
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Restaurant{}, &models.MenuItem{}, &models.Address{},
		&models.Deliverer{}, &models.Order{}, &models.OrderLine{},
	))

	orders := repository.NewGormOrderRepository(db)
	deliverers := repository.NewGormDelivererRepository(db)
	catalog := repository.NewGormCatalogRepository(db)
	log := zap.NewNop()

	assignments := NewAssignmentService(orders, deliverers, log)
	return &testEnv{
		db:          db,
		checkout:    NewCheckoutService(orders, catalog, catalog, log),
		transitions: NewTransitionService(orders, assignments, log),
		assignments: assignments,
		access:      NewOrderAccess(orders),
	}
}

func (e *testEnv) seedRestaurant(t *testing.T, open bool, fee string) *models.Restaurant {
	t.Helper()
	restaurant := &models.Restaurant{
		ID:          uuid.New(),
		Name:        "Cantina da Praca",
		IsOpen:      open,
		DeliveryFee: decimal.RequireFromString(fee),
	}
	require.NoError(t, e.db.Create(restaurant).Error)
	return restaurant
}

func (e *testEnv) seedMenuItem(t *testing.T, restaurantID uuid.UUID, price string, available bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		Name:         "Feijoada",
		Price:        decimal.RequireFromString(price),
		Available:    available,
	}
	require.NoError(t, e.db.Create(item).Error)
	return item
}

func (e *testEnv) seedAddress(t *testing.T, clientID uuid.UUID) *models.Address {
	t.Helper()
	address := &models.Address{
		ID:         uuid.New(),
		ClientID:   clientID,
		Street:     "Av. Paulista 1000",
		City:       "Sao Paulo",
		PostalCode: "01310-100",
	}
	require.NoError(t, e.db.Create(address).Error)
	return address
}

func (e *testEnv) seedDeliverer(t *testing.T, availability models.Availability) *models.Deliverer {
	t.Helper()
	deliverer := &models.Deliverer{ID: uuid.New(), Name: "Diego", Availability: availability}
	require.NoError(t, e.db.Create(deliverer).Error)
	return deliverer
}

func (e *testEnv) countOrders(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Order{}).Count(&n).Error)
	return n
}

func (e *testEnv) countLines(t *testing.T) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.OrderLine{}).Count(&n).Error)
	return n
}

func TestCheckout_CreatesPendingOrderWithFrozenPrices(t *testing.T) {
	env := newTestEnv(t)
	clientID := uuid.New()
	restaurant := env.seedRestaurant(t, true, "4.00")
	item := env.seedMenuItem(t, restaurant.ID, "12.50", true)
	address := env.seedAddress(t, clientID)

	order, err := env.checkout.Checkout(context.Background(), clientID, &CheckoutRequest{
		RestaurantID:  restaurant.ID,
		AddressID:     address.ID,
		PaymentMethod: models.PaymentPix,
		Items:         []CheckoutItem{{MenuItemID: item.ID, Quantity: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, order.Status)
	assert.Equal(t, clientID, order.ClientID)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("29.00")), "total = 2*12.50 + 4.00, got %s", order.Total)
	require.Len(t, order.Lines, 1)
	assert.True(t, order.Lines[0].UnitPrice.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, 2, order.Lines[0].Quantity)

	// Address snapshot is frozen into the order.
	assert.Equal(t, address.ID, order.AddressID)
	assert.Equal(t, "Av. Paulista 1000", order.AddressStreet)
}

func TestCheckout_PriceImmuneToLaterCatalogChanges(t *testing.T) {
	env := newTestEnv(t)
	clientID := uuid.New()
	restaurant := env.seedRestaurant(t, true, "0.00")
	item := env.seedMenuItem(t, restaurant.ID, "10.00", true)
	address := env.seedAddress(t, clientID)

	order, err := env.checkout.Checkout(context.Background(), clientID, &CheckoutRequest{
		RestaurantID:  restaurant.ID,
		AddressID:     address.ID,
		PaymentMethod: models.PaymentCash,
		Items:         []CheckoutItem{{MenuItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	// The live menu price changes after checkout.
	require.NoError(t, env.db.Model(&models.MenuItem{}).
		Where("id = ?", item.ID).
		Update("price", decimal.RequireFromString("15.00")).Error)

	reloaded, err := env.access.GetOrder(context.Background(), order.ID, models.RoleClient, clientID)
	require.NoError(t, err)
	assert.True(t, reloaded.Lines[0].UnitPrice.Equal(decimal.RequireFromString("10.00")))
	assert.True(t, reloaded.Total.Equal(decimal.RequireFromString("10.00")))
}

func TestCheckout_FailuresWriteNothing(t *testing.T) {
	env := newTestEnv(t)
	clientID := uuid.New()
	openRestaurant := env.seedRestaurant(t, true, "4.00")
	closedRestaurant := env.seedRestaurant(t, false, "4.00")
	goodItem := env.seedMenuItem(t, openRestaurant.ID, "12.50", true)
	unavailableItem := env.seedMenuItem(t, openRestaurant.ID, "8.00", false)
	foreignItem := env.seedMenuItem(t, closedRestaurant.ID, "9.00", true)
	address := env.seedAddress(t, clientID)
	otherAddress := env.seedAddress(t, uuid.New())

	tests := []struct {
		name string
		req  CheckoutRequest
		kind apperrors.Kind
		code string
	}{
		{
			name: "empty cart",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
			},
			kind: apperrors.KindEmptyCart,
			code: "EMPTY_CART",
		},
		{
			name: "unknown payment method",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentMethod("check"),
				Items:         []CheckoutItem{{MenuItemID: goodItem.ID, Quantity: 1}},
			},
			kind: apperrors.KindValidation,
			code: "INVALID_PAYMENT_METHOD",
		},
		{
			name: "zero quantity line",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
				Items:         []CheckoutItem{{MenuItemID: goodItem.ID, Quantity: 0}},
			},
			kind: apperrors.KindValidation,
			code: "INVALID_QUANTITY",
		},
		{
			name: "restaurant not found",
			req: CheckoutRequest{
				RestaurantID:  uuid.New(),
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
				Items:         []CheckoutItem{{MenuItemID: goodItem.ID, Quantity: 1}},
			},
			kind: apperrors.KindNotFound,
			code: "RESTAURANT_NOT_FOUND",
		},
		{
			name: "restaurant closed",
			req: CheckoutRequest{
				RestaurantID:  closedRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
				Items:         []CheckoutItem{{MenuItemID: foreignItem.ID, Quantity: 1}},
			},
			kind: apperrors.KindRestaurantClosed,
			code: "RESTAURANT_CLOSED",
		},
		{
			name: "address owned by another client",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     otherAddress.ID,
				PaymentMethod: models.PaymentPix,
				Items:         []CheckoutItem{{MenuItemID: goodItem.ID, Quantity: 1}},
			},
			kind: apperrors.KindValidation,
			code: "INVALID_ADDRESS",
		},
		{
			name: "menu item not found",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
				Items:         []CheckoutItem{{MenuItemID: uuid.New(), Quantity: 1}},
			},
			kind: apperrors.KindNotFound,
			code: "MENU_ITEM_NOT_FOUND",
		},
		{
			name: "item from another restaurant",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
				Items:         []CheckoutItem{{MenuItemID: foreignItem.ID, Quantity: 1}},
			},
			kind: apperrors.KindForeignRestaurant,
			code: "FOREIGN_RESTAURANT_ITEM",
		},
		{
			name: "item unavailable after a valid line",
			req: CheckoutRequest{
				RestaurantID:  openRestaurant.ID,
				AddressID:     address.ID,
				PaymentMethod: models.PaymentPix,
				Items: []CheckoutItem{
					{MenuItemID: goodItem.ID, Quantity: 1},
					{MenuItemID: unavailableItem.ID, Quantity: 1},
				},
			},
			kind: apperrors.KindItemUnavailable,
			code: "ITEM_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.checkout.Checkout(context.Background(), clientID, &tt.req)
			require.Error(t, err)
			appErr, ok := apperrors.From(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.code, appErr.Code)

			// All-or-nothing: no order or line rows survive a failed checkout.
			assert.Equal(t, int64(0), env.countOrders(t))
			assert.Equal(t, int64(0), env.countLines(t))
		})
	}
}

func TestCheckout_ZeroFeeWhenRestaurantHasNone(t *testing.T) {
	env := newTestEnv(t)
	clientID := uuid.New()
	restaurant := env.seedRestaurant(t, true, "0.00")
	item := env.seedMenuItem(t, restaurant.ID, "20.00", true)
	address := env.seedAddress(t, clientID)

	order, err := env.checkout.Checkout(context.Background(), clientID, &CheckoutRequest{
		RestaurantID:  restaurant.ID,
		AddressID:     address.ID,
		PaymentMethod: models.PaymentMealVoucher,
		Items:         []CheckoutItem{{MenuItemID: item.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, order.Total.Equal(decimal.RequireFromString("20.00")))
}
