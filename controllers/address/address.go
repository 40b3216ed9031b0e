package addressControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/service"
)

type CreateAddressRequest struct {
	FullName string `json:"full_name" binding:"required"`
	Country  string `json:"country" binding:"required"`
	City     string `json:"city" binding:"required"`
	Street   string `json:"street" binding:"required"`
	Zipcode  string `json:"zipcode" binding:"required"`
}

// POST /addresses
func CreateAddress(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		address := models.Address{
			UserID:   middleware.UserID(c),
			FullName: req.FullName,
			Country:  req.Country,
			City:     req.City,
			Street:   req.Street,
			Zipcode:  req.Zipcode,
		}
		if err := users.CreateAddress(c.Request.Context(), &address); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}

// GET /addresses
func MyAddresses(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addresses, err := users.AddressesByUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, addresses)
	}
}

// DELETE /addresses/:id
func DeleteAddress(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		addressID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid address ID"})
			return
		}
		if err := users.DeleteAddress(c.Request.Context(), uint(addressID), middleware.UserID(c)); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Address deleted"})
	}
}
