package orderControllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/service"
)

type CreateOrderRequest struct {
	AddressID uint `json:"address_id" binding:"required"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// POST /orders
func CreateOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		order, err := orders.Create(c.Request.Context(), middleware.UserID(c), req.AddressID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}

// GET /orders/:id
func GetOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		order, err := orders.Get(c.Request.Context(), uint(orderID), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// GET /orders
func MyOrders(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := orders.GetByUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// POST /orders/:id/cancel
func CancelOrder(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		if err := orders.Cancel(c.Request.Context(), uint(orderID), middleware.UserID(c)); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order cancelled"})
	}
}

// GET /admin/orders (admin)
func ListOrders(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter service.OrderFilter
		if raw := c.Query("status"); raw != "" {
			status, err := service.ParseOrderStatus(raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
				return
			}
			filter.Status = &status
		}
		if raw := c.Query("created_after"); raw != "" {
			t, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid created_after timestamp"})
				return
			}
			filter.CreatedAfter = &t
		}

		page := service.Pagination{Limit: 50}
		if raw := c.Query("limit"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
				page.Limit = v
			}
		}
		if raw := c.Query("offset"); raw != "" {
			if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
				page.Offset = v
			}
		}

		list, err := orders.List(c.Request.Context(), filter, page)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

// PATCH /admin/orders/:id/status (admin)
func ChangeOrderStatus(orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
			return
		}
		var req ChangeStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		status, err := service.ParseOrderStatus(req.Status)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order status"})
			return
		}
		if err := orders.ChangeStatus(c.Request.Context(), uint(orderID), status); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order status updated"})
	}
}
