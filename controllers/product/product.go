package productControllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivan-22-3-5/e-commerce/controllers/httperr"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/service"
)

type CreateProductRequest struct {
	Title       string   `json:"title" binding:"required,max=50"`
	Description string   `json:"description" binding:"max=1000"`
	Price       int64    `json:"price" binding:"required,gt=0"`
	Discount    int      `json:"discount" binding:"gte=0,lte=99"`
	Quantity    int      `json:"quantity" binding:"gte=0"`
	Images      []string `json:"images"`
	Categories  []string `json:"categories"`
}

type ProductResponse struct {
	models.Product
	FinalPrice int64   `json:"final_price"`
	Rating     float64 `json:"rating"`
}

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, FinalPrice: p.FinalPrice(), Rating: p.Rating()}
}

// POST /products (admin)
func CreateProduct(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := models.Product{
			Title:       req.Title,
			Description: req.Description,
			Price:       req.Price,
			Discount:    req.Discount,
			Quantity:    req.Quantity,
			Enabled:     true,
		}
		for _, url := range req.Images {
			product.Images = append(product.Images, models.ProductImage{URL: url})
		}
		for _, name := range req.Categories {
			product.Categories = append(product.Categories, models.Category{Name: name})
		}

		if err := catalog.CreateProduct(c.Request.Context(), &product); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, toResponse(product))
	}
}

// GET /products/:id
func GetProduct(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		product, err := catalog.GetProduct(c.Request.Context(), uint(id))
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, toResponse(*product))
	}
}

// GET /products
func ListProducts(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := service.ProductFilter{
			Category: c.Query("category"),
			Search:   c.Query("search"),
		}
		if raw := c.Query("min_price"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid min_price"})
				return
			}
			filter.MinPrice = &v
		}
		if raw := c.Query("max_price"); raw != "" {
			v, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid max_price"})
				return
			}
			filter.MaxPrice = &v
		}
		// Storefront listings only show purchasable products.
		enabled := true
		filter.Enabled = &enabled

		products, err := catalog.ListProducts(c.Request.Context(), filter)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		out := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toResponse(p))
		}
		c.JSON(http.StatusOK, out)
	}
}

// PATCH /products/:id (admin)
func UpdateProduct(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		var update service.ProductUpdate
		if err := c.ShouldBindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := catalog.UpdateProduct(c.Request.Context(), uint(id), update); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product updated"})
	}
}

// DELETE /products/:id (admin)
func DeleteProduct(catalog *service.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}
		if err := catalog.DeleteProduct(c.Request.Context(), uint(id)); err != nil {
			httperr.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
	}
}
