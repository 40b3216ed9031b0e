package routes

import (
	"github.com/gin-gonic/gin"

	paymentControllers "github.com/ivan-22-3-5/e-commerce/controllers/payment"
)

// SetupPaymentRoutes registers the gateway callback endpoint. The webhook
// authenticates by signature, not by bearer token.
func SetupPaymentRoutes(r *gin.Engine, deps Deps) {
	r.POST("/payments/webhook", paymentControllers.Webhook(deps.Gateway, deps.Payments))
}
