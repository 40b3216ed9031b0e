package service

import (
	"context"
	"fmt"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

type CatalogService struct {
	store Store
}

func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{store: store}
}

// -------- products --------

// CreateProduct stores the product. Categories are attached by name and
// must already exist; gorm would otherwise create them implicitly as a
// side effect of the association upsert.
func (s *CatalogService) CreateProduct(ctx context.Context, product *models.Product) error {
	for _, category := range product.Categories {
		if _, err := s.store.GetCategory(ctx, category.Name); err != nil {
			return fmt.Errorf("category %q: %w", category.Name, err)
		}
	}
	return s.store.CreateProduct(ctx, product)
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.store.GetProduct(ctx, id)
}

func (s *CatalogService) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	return s.store.ListProducts(ctx, filter)
}

// ProductUpdate carries the mutable product fields; nil means keep.
type ProductUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Price       *int64  `json:"price"`
	Discount    *int    `json:"discount"`
	Quantity    *int    `json:"quantity"`
	Enabled     *bool   `json:"enabled"`
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, update ProductUpdate) error {
	patch := map[string]any{}
	if update.Title != nil {
		patch["title"] = *update.Title
	}
	if update.Description != nil {
		patch["description"] = *update.Description
	}
	if update.Price != nil {
		patch["price"] = *update.Price
	}
	if update.Discount != nil {
		patch["discount"] = *update.Discount
	}
	if update.Quantity != nil {
		if *update.Quantity < 0 {
			return fmt.Errorf("quantity cannot be negative: %w", apperrors.ErrInvalidPayload)
		}
		patch["quantity"] = *update.Quantity
	}
	if update.Enabled != nil {
		patch["enabled"] = *update.Enabled
	}
	if len(patch) == 0 {
		return nil
	}
	return s.store.UpdateProduct(ctx, id, patch)
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	return s.store.DeleteProduct(ctx, id)
}

// -------- categories --------

func (s *CatalogService) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	category := &models.Category{Name: name}
	if err := s.store.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *CatalogService) DeleteCategory(ctx context.Context, name string) error {
	return s.store.DeleteCategory(ctx, name)
}

// -------- reviews --------

func (s *CatalogService) CreateReview(ctx context.Context, review *models.Review) error {
	if review.Rating < 1 || review.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5: %w", apperrors.ErrInvalidPayload)
	}
	product, err := s.store.GetProductOrNil(ctx, review.ProductID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product %d: %w", review.ProductID, apperrors.ErrResourceDoesNotExist)
	}
	// The unique (user, product) index turns a second review into
	// ResourceAlreadyExists.
	return s.store.CreateReview(ctx, review)
}

func (s *CatalogService) ReviewsByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	return s.store.ReviewsByProduct(ctx, productID)
}

func (s *CatalogService) ReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	return s.store.ReviewsByUser(ctx, userID)
}

// DeleteReview removes the review; only its author or an admin may.
func (s *CatalogService) DeleteReview(ctx context.Context, reviewID, userID uint, isAdmin bool) error {
	review, err := s.store.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if review.UserID != userID && !isAdmin {
		return fmt.Errorf("user is not the review author: %w", apperrors.ErrNotEnoughRights)
	}
	return s.store.DeleteReview(ctx, reviewID)
}
