package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	orderControllers "github.com/ivan-22-3-5/e-commerce/controllers/order"
	"github.com/ivan-22-3-5/e-commerce/payments"
	"github.com/ivan-22-3-5/e-commerce/service"
)

// Deps carries everything the route groups need to build their handlers.
type Deps struct {
	Users    *service.UserService
	Tokens   *service.TokenService
	Catalog  *service.CatalogService
	Carts    *service.CartService
	Orders   *service.OrderService
	Payments *service.PaymentService

	Gateway   *payments.StripeGateway
	OrderFeed *orderControllers.Feed

	RefreshTTL time.Duration
}

// SetupRoutes is the single entry-point that wires up all route groups.
func SetupRoutes(r *gin.Engine, deps Deps) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, deps)

	// Public catalog browsing
	SetupCatalogRoutes(r, deps)

	// JWT-protected user routes
	SetupUserRoutes(r, deps)

	// Orders and checkout
	SetupOrderRoutes(r, deps)

	// Gateway webhook
	SetupPaymentRoutes(r, deps)

	// Admin routes
	SetupAdminRoutes(r, deps)
}
