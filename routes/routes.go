package routes

import (
	"net/http"

	"delivery-api/controllers"
	"delivery-api/middleware"
	"delivery-api/models"

	"github.com/gin-gonic/gin"
)

// Register wires the API routes onto the router.
func Register(r *gin.Engine, jwtSecret string, oc *controllers.OrderController, dc *controllers.DelivererController) {
	v1 := r.Group("/api/v1")

	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Delivery API is running",
		})
	})

	auth := middleware.Authenticate(jwtSecret)

	orders := v1.Group("/orders", auth)
	orders.POST("", oc.Checkout)
	orders.GET("", oc.ListOrders)
	orders.GET("/:id", oc.GetOrder)
	orders.POST("/:id/transition", oc.Transition)
	orders.POST("/:id/assign-deliverer", oc.AssignDeliverer)

	deliverers := v1.Group("/deliverers", auth, middleware.RequireRole(models.RoleDeliverer))
	deliverers.POST("/availability", dc.SetAvailability)
}
