package controllers

import (
	"net/http"
	"strconv"

	"delivery-api/middleware"
	"delivery-api/models"
	"delivery-api/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OrderController exposes the order lifecycle over HTTP: checkout, reads,
// status transitions and deliverer assignment.
type OrderController struct {
	checkout    *services.CheckoutService
	transitions *services.TransitionService
	assignments *services.AssignmentService
	access      *services.OrderAccess
}

// NewOrderController creates a new OrderController
func NewOrderController(checkout *services.CheckoutService, transitions *services.TransitionService, assignments *services.AssignmentService, access *services.OrderAccess) *OrderController {
	return &OrderController{
		checkout:    checkout,
		transitions: transitions,
		assignments: assignments,
		access:      access,
	}
}

// TransitionRequest is the body for POST /orders/:id/transition.
type TransitionRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// AssignDelivererRequest is the body for POST /orders/:id/assign-deliverer.
type AssignDelivererRequest struct {
	DelivererID uuid.UUID `json:"deliverer_id" binding:"required"`
}

// Checkout handles POST /api/v1/orders - converts the client's cart into a
// pending order (clients only).
func (oc *OrderController) Checkout(c *gin.Context) {
	actorID, role, err := middleware.GetActor(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if role != models.RoleClient {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only clients can place orders",
			},
		})
		return
	}

	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := oc.checkout.Checkout(c.Request.Context(), actorID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusCreated, order)
}

// ListOrders handles GET /api/v1/orders - lists the actor's own orders.
func (oc *OrderController) ListOrders(c *gin.Context) {
	actorID, role, err := middleware.GetActor(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	page, limit := parsePaginationParams(c)
	orders, total, err := oc.access.ListOrders(c.Request.Context(), role, actorID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"page":       page,
			"limit":      limit,
			"total":      total,
			"totalPages": totalPages,
		},
	})
}

// GetOrder handles GET /api/v1/orders/:id - access-gated order read.
func (oc *OrderController) GetOrder(c *gin.Context) {
	actorID, role, err := middleware.GetActor(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	order, err := oc.access.GetOrder(c.Request.Context(), orderID, role, actorID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// Transition handles POST /api/v1/orders/:id/transition - moves the order
// through the status state machine on behalf of the authenticated actor.
func (oc *OrderController) Transition(c *gin.Context) {
	actorID, role, err := middleware.GetActor(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := oc.transitions.Transition(c.Request.Context(), orderID, role, actorID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// AssignDeliverer handles POST /api/v1/orders/:id/assign-deliverer -
// restaurant binds an available deliverer to the order.
func (oc *OrderController) AssignDeliverer(c *gin.Context) {
	actorID, role, err := middleware.GetActor(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}
	if role != models.RoleRestaurant {
		c.JSON(http.StatusForbidden, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "FORBIDDEN",
				"message": "Only restaurants can assign deliverers",
			},
		})
		return
	}

	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req AssignDelivererRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	order, err := oc.assignments.Assign(c.Request.Context(), orderID, actorID, req.DelivererID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, order)
}

// parseOrderID reads the :id path parameter; on failure it writes the 400
// response itself.
func parseOrderID(c *gin.Context) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ORDER_ID",
				"message": "Order id must be a valid UUID",
			},
		})
		return uuid.Nil, false
	}
	return orderID, true
}

// parsePaginationParams extracts and validates pagination parameters
func parsePaginationParams(c *gin.Context) (int, int) {
	const maxLimit = 100

	page := 1
	limit := 10

	if p, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil && p > 0 {
		page = p
	}
	if l, err := strconv.Atoi(c.DefaultQuery("limit", "10")); err == nil && l > 0 {
		limit = l
		if limit > maxLimit {
			limit = maxLimit
		}
	}

	return page, limit
}
