package routes

import (
	"github.com/gin-gonic/gin"

	productControllers "github.com/ivan-22-3-5/e-commerce/controllers/product"
)

// SetupCatalogRoutes registers the public storefront endpoints.
func SetupCatalogRoutes(r *gin.Engine, deps Deps) {
	r.GET("/products", productControllers.ListProducts(deps.Catalog))
	r.GET("/products/:id", productControllers.GetProduct(deps.Catalog))
	r.GET("/products/:id/reviews", productControllers.ReviewsByProduct(deps.Catalog))
	r.GET("/categories", productControllers.ListCategories(deps.Catalog))
}
