package controllers

import (
	"net/http"

	"delivery-api/middleware"
	"delivery-api/models"
	"delivery-api/services"

	"github.com/gin-gonic/gin"
)

// DelivererController exposes deliverer self-service endpoints.
type DelivererController struct {
	assignments *services.AssignmentService
}

// NewDelivererController creates a new DelivererController
func NewDelivererController(assignments *services.AssignmentService) *DelivererController {
	return &DelivererController{assignments: assignments}
}

// SetAvailabilityRequest is the body for POST /deliverers/availability.
type SetAvailabilityRequest struct {
	Availability models.Availability `json:"availability" binding:"required"`
}

// SetAvailability handles POST /api/v1/deliverers/availability - the
// authenticated deliverer toggles between available and unavailable.
func (dc *DelivererController) SetAvailability(c *gin.Context) {
	actorID, _, err := middleware.GetActor(c)
	if err != nil {
		respondUnauthorized(c)
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, err)
		return
	}

	if err := dc.assignments.SetAvailability(c.Request.Context(), actorID, req.Availability); err != nil {
		respondError(c, err)
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"deliverer_id": actorID,
		"availability": req.Availability,
	})
}
