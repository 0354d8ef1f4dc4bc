package models

// OrderStatus is the closed set of order workflow states.
type OrderStatus string

const (
	StatusPending              OrderStatus = "pending"
	StatusConfirmed            OrderStatus = "confirmed"
	StatusInPreparation        OrderStatus = "in_preparation"
	StatusReady                OrderStatus = "ready"
	StatusOutForDelivery       OrderStatus = "out_for_delivery"
	StatusAwaitingConfirmation OrderStatus = "awaiting_confirmation"
	StatusDelivered            OrderStatus = "delivered"
	StatusCancelled            OrderStatus = "cancelled"
)

var validStatuses = map[OrderStatus]struct{}{
	StatusPending:              {},
	StatusConfirmed:            {},
	StatusInPreparation:        {},
	StatusReady:                {},
	StatusOutForDelivery:       {},
	StatusAwaitingConfirmation: {},
	StatusDelivered:            {},
	StatusCancelled:            {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s OrderStatus) bool {
	_, ok := validStatuses[s]
	return ok
}

// Terminal reports whether no further transitions are legal from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Role identifies which of the three marketplace actors is making a request.
type Role string

const (
	RoleClient     Role = "client"
	RoleRestaurant Role = "restaurant"
	RoleDeliverer  Role = "deliverer"
)

// ValidRole reports whether r is a known actor role.
func ValidRole(r Role) bool {
	return r == RoleClient || r == RoleRestaurant || r == RoleDeliverer
}

type transition struct {
	From, To OrderStatus
}

// allowedTransitions maps each legal (from, to) status pair to the roles
// permitted to request it. A pair absent from this map is illegal for
// everyone; the terminal states have no outbound entries. Clients appear only
// on pending→cancelled and awaiting_confirmation→delivered: a client may not
// cancel once the restaurant has begun work.
var allowedTransitions = map[transition][]Role{
	{StatusPending, StatusConfirmed}:                   {RoleRestaurant},
	{StatusPending, StatusCancelled}:                   {RoleRestaurant, RoleClient},
	{StatusConfirmed, StatusInPreparation}:             {RoleRestaurant},
	{StatusConfirmed, StatusCancelled}:                 {RoleRestaurant},
	{StatusInPreparation, StatusReady}:                 {RoleRestaurant},
	{StatusInPreparation, StatusCancelled}:             {RoleRestaurant},
	{StatusReady, StatusOutForDelivery}:                {RoleRestaurant},
	{StatusReady, StatusCancelled}:                     {RoleRestaurant},
	{StatusOutForDelivery, StatusAwaitingConfirmation}: {RoleDeliverer},
	{StatusOutForDelivery, StatusDelivered}:            {RoleDeliverer},
	{StatusOutForDelivery, StatusCancelled}:            {RoleDeliverer},
	{StatusAwaitingConfirmation, StatusDelivered}:      {RoleDeliverer, RoleClient},
	{StatusAwaitingConfirmation, StatusCancelled}:      {RoleDeliverer},
}

// CanTransition reports whether the (from, to) pair is legal for any actor.
func CanTransition(from, to OrderStatus) bool {
	_, ok := allowedTransitions[transition{from, to}]
	return ok
}

// RoleMayTransition reports whether role is authorized to request the
// (from, to) transition. Ownership of the order is checked separately.
func RoleMayTransition(role Role, from, to OrderStatus) bool {
	for _, r := range allowedTransitions[transition{from, to}] {
		if r == role {
			return true
		}
	}
	return false
}
