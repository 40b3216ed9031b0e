package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/service"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Content string `json:"content" binding:"max=1000"`
}

// POST /products/:id/reviews
func CreateReview(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		review := models.Review{
			UserID:    middleware.UserID(c),
			ProductID: uint(productID),
			Rating:    req.Rating,
			Content:   req.Content,
		}
		if err := catalog.CreateReview(c.Request.Context(), &review); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, review)
	}
}

// GET /products/:id/reviews
func ReviewsByProduct(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		reviews, err := catalog.ReviewsByProduct(c.Request.Context(), uint(productID))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// DELETE /reviews/:id
func DeleteReview(catalog *service.CatalogService, users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review ID"})
			return
		}
		userID := middleware.UserID(c)
		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		if err := catalog.DeleteReview(c.Request.Context(), uint(reviewID), userID, user.IsAdmin); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
	}
}
