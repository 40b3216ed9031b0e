package routes

import (
	"github.com/gin-gonic/gin"

	orderControllers "github.com/ivan-22-3-5/e-commerce/controllers/order"
	productControllers "github.com/ivan-22-3-5/e-commerce/controllers/product"
	userControllers "github.com/ivan-22-3-5/e-commerce/controllers/user"
	"github.com/ivan-22-3-5/e-commerce/middleware"
)

// SetupAdminRoutes registers all "/admin/*" endpoints.
func SetupAdminRoutes(r *gin.Engine, deps Deps) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.Authenticate(deps.Tokens), middleware.RequireAdmin(deps.Users))
	{
		adminGroup.GET("/users", userControllers.ListUsers(deps.Users))

		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", productControllers.CreateProduct(deps.Catalog))
			productAdmin.PATCH("/:id", productControllers.UpdateProduct(deps.Catalog))
			productAdmin.DELETE("/:id", productControllers.DeleteProduct(deps.Catalog))
			productAdmin.GET("/export-excel", productControllers.ExportProductsToExcel(deps.Catalog))
		}

		categoryAdmin := adminGroup.Group("/categories")
		{
			categoryAdmin.POST("", productControllers.CreateCategory(deps.Catalog))
			categoryAdmin.DELETE("/:name", productControllers.DeleteCategory(deps.Catalog))
		}

		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.ListOrders(deps.Orders))
			orderAdmin.PATCH("/:id/status", orderControllers.ChangeOrderStatus(deps.Orders))
			orderAdmin.GET("/ws", deps.OrderFeed.Handler)
		}
	}
}
