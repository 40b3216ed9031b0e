package cartControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/service"
)

type CartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GET /cart
func GetCart(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := carts.Get(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, cart)
	}
}

// POST /cart/items/:productID
func AddItem(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := carts.AddItem(c.Request.Context(), middleware.UserID(c), uint(productID), req.Quantity); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart"})
	}
}

// DELETE /cart/items/:productID
func RemoveItem(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("productID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		quantity := 1
		if raw := c.Query("quantity"); raw != "" {
			quantity, err = strconv.Atoi(raw)
			if err != nil || quantity < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
				return
			}
		}
		if err := carts.RemoveItem(c.Request.Context(), middleware.UserID(c), uint(productID), quantity); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

// DELETE /cart
func ClearCart(carts *service.CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := carts.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
	}
}
