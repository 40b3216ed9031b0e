package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/ivan-22-3-5/e-commerce/controllers/order"
	paymentControllers "github.com/ivan-22-3-5/e-commerce/controllers/payment"
	"github.com/ivan-22-3-5/e-commerce/middleware"
)

// SetupOrderRoutes registers the order placement and checkout endpoints.
func SetupOrderRoutes(r *gin.Engine, deps Deps) {
	orderGroup := r.Group("/orders")
	orderGroup.Use(middleware.Authenticate(deps.Tokens))
	{
		orderGroup.POST("", orderControllers.CreateOrder(deps.Orders))
		orderGroup.GET("", orderControllers.MyOrders(deps.Orders))
		orderGroup.GET("/:id", orderControllers.GetOrder(deps.Orders))
		orderGroup.POST("/:id/cancel", orderControllers.CancelOrder(deps.Orders))
		orderGroup.POST("/:id/checkout", paymentControllers.Checkout(deps.Payments))
	}
}
