package paymentControllers

import (
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/payments"
	"github.com/ivan-22-3-5/e-commerce/service"
)

// POST /orders/:id/checkout
func Checkout(paymentsSvc *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		url, err := paymentsSvc.InitiateCheckout(c.Request.Context(), uint(orderID), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"checkout_url": url})
	}
}

// POST /payments/webhook
// The gateway retries on non-2xx, so malformed or unverifiable events are
// acknowledged after logging instead of bounced forever.
func Webhook(gateway *payments.StripeGateway, paymentsSvc *service.PaymentService) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
			return
		}

		event, err := gateway.VerifyEvent(payload, c.GetHeader("Stripe-Signature"))
		if err != nil {
			log.Printf("❌ webhook signature verification failed: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
			return
		}

		normalized, ok, err := payments.NormalizeEvent(event)
		if err != nil {
			log.Printf("❌ webhook event %s dropped: %v", event.Type, err)
			c.Status(http.StatusOK)
			return
		}
		if !ok {
			// Event type the workflow does not react to.
			c.Status(http.StatusOK)
			return
		}

		if err := paymentsSvc.HandleEvent(c.Request.Context(), normalized); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.Status(http.StatusOK)
	}
}
