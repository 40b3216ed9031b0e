package service

import (
	"context"
	"fmt"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

// CartLine prices are computed from the current catalog on every read, so
// the cart always shows today's pricing (orders freeze theirs instead).
type CartLine struct {
	ProductID  uint   `json:"product_id"`
	Title      string `json:"title"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unit_price"`
	TotalPrice int64  `json:"total_price"`
}

type CartView struct {
	Items      []CartLine `json:"items"`
	TotalPrice int64      `json:"total_price"`
}

type CartService struct {
	store Store
}

func NewCartService(store Store) *CartService {
	return &CartService{store: store}
}

func (s *CartService) Get(ctx context.Context, userID uint) (*CartView, error) {
	items, err := s.store.CartItems(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	for _, item := range items {
		line := CartLine{
			ProductID:  item.ProductID,
			Title:      item.Product.Title,
			Quantity:   item.Quantity,
			UnitPrice:  item.Product.FinalPrice(),
			TotalPrice: item.TotalPrice(),
		}
		view.Items = append(view.Items, line)
		view.TotalPrice += line.TotalPrice
	}
	return view, nil
}

// AddItem creates the (user, product) row or bumps its quantity.
func (s *CartService) AddItem(ctx context.Context, userID, productID uint, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("quantity must be at least 1: %w", apperrors.ErrInvalidPayload)
	}
	product, err := s.store.GetProductOrNil(ctx, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return fmt.Errorf("product %d: %w", productID, apperrors.ErrResourceDoesNotExist)
	}

	existing, err := s.store.GetCartItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return s.store.CreateCartItem(ctx, &models.CartItem{
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
		})
	}
	existing.Quantity += quantity
	return s.store.SaveCartItem(ctx, existing)
}

// RemoveItem decrements the line and deletes it once nothing remains.
// Removing an absent line is a no-op.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uint, quantity int) error {
	existing, err := s.store.GetCartItem(ctx, userID, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if quantity >= existing.Quantity {
		return s.store.DeleteCartItem(ctx, userID, productID)
	}
	existing.Quantity -= quantity
	return s.store.SaveCartItem(ctx, existing)
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.store.ClearCart(ctx, userID)
}
