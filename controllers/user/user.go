package userControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/middleware"
	"github.com/ivan-22-3-5/e-commerce/service"
)

// GET /users/me
func Me(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := users.GetByID(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GET /users/me/reviews
func MyReviews(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := catalog.ReviewsByUser(c.Request.Context(), middleware.UserID(c))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, reviews)
	}
}

// GET /admin/users (admin)
func ListUsers(users *service.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		list, err := users.List(c.Request.Context(), page)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}
