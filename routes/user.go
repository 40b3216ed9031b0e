package routes

import (
	"github.com/gin-gonic/gin"

	addressControllers "github.com/ivan-22-3-5/e-commerce/controllers/address"
	cartControllers "github.com/ivan-22-3-5/e-commerce/controllers/cart"
	productControllers "github.com/ivan-22-3-5/e-commerce/controllers/product"
	userControllers "github.com/ivan-22-3-5/e-commerce/controllers/user"
	"github.com/ivan-22-3-5/e-commerce/middleware"
)

// SetupUserRoutes registers the JWT-protected account endpoints.
func SetupUserRoutes(r *gin.Engine, deps Deps) {
	userGroup := r.Group("/users/me")
	userGroup.Use(middleware.Authenticate(deps.Tokens))
	{
		userGroup.GET("", userControllers.Me(deps.Users))
		userGroup.GET("/reviews", userControllers.MyReviews(deps.Catalog))
	}

	cartGroup := r.Group("/cart")
	cartGroup.Use(middleware.Authenticate(deps.Tokens))
	{
		cartGroup.GET("", cartControllers.GetCart(deps.Carts))
		cartGroup.POST("/items/:productID", cartControllers.AddItem(deps.Carts))
		cartGroup.DELETE("/items/:productID", cartControllers.RemoveItem(deps.Carts))
		cartGroup.DELETE("", cartControllers.ClearCart(deps.Carts))
	}

	addressGroup := r.Group("/addresses")
	addressGroup.Use(middleware.Authenticate(deps.Tokens))
	{
		addressGroup.POST("", addressControllers.CreateAddress(deps.Users))
		addressGroup.GET("", addressControllers.MyAddresses(deps.Users))
		addressGroup.DELETE("/:id", addressControllers.DeleteAddress(deps.Users))
	}

	reviewGroup := r.Group("")
	reviewGroup.Use(middleware.Authenticate(deps.Tokens))
	{
		reviewGroup.POST("/products/:id/reviews", productControllers.CreateReview(deps.Catalog))
		reviewGroup.DELETE("/reviews/:id", productControllers.DeleteReview(deps.Catalog, deps.Users))
	}
}
