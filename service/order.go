package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

// orderTransitions is the single source of truth for status changes.
// Cancelled and Delivered are terminal.
var orderTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusConfirmed, models.OrderStatusCancelled},
	models.OrderStatusConfirmed: {models.OrderStatusShipped},
	models.OrderStatusShipped:   {models.OrderStatusDelivered},
}

func transitionAllowed(from, to models.OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type OrderService struct {
	store Store

	// onCreated, when set, is invoked after an order is committed;
	// the websocket feed hooks in here.
	onCreated func(order *models.Order)
}

func NewOrderService(store Store) *OrderService {
	return &OrderService{store: store}
}

// OnCreated registers a callback fired after successful order creation.
func (s *OrderService) OnCreated(fn func(order *models.Order)) {
	s.onCreated = fn
}

// Create converts the user's cart into an order. All stock checks run before
// any mutation and the whole conversion happens in one transaction: either
// every line is reserved and the order exists, or nothing changed.
func (s *OrderService) Create(ctx context.Context, userID, addressID uint) (*models.Order, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsConfirmed {
		return nil, fmt.Errorf("ordering requires a confirmed email: %w", apperrors.ErrEmailNotConfirmed)
	}

	address, err := s.store.GetAddress(ctx, addressID)
	if err != nil {
		return nil, fmt.Errorf("address %d: %w", addressID, err)
	}
	if address.UserID != userID {
		return nil, fmt.Errorf("address does not belong to the user: %w", apperrors.ErrNotEnoughRights)
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx Store) error {
		items, err := tx.CartItems(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return apperrors.ErrEmptyCart
		}

		products, err := lockProducts(ctx, tx, productIDs(items))
		if err != nil {
			return err
		}

		// Check every line before touching any counter, so a failing
		// line cannot leave a partial reservation behind.
		for _, item := range items {
			product, ok := products[item.ProductID]
			if !ok {
				return fmt.Errorf("product %d: %w", item.ProductID, apperrors.ErrResourceDoesNotExist)
			}
			if product.Quantity < item.Quantity {
				return fmt.Errorf("product %d: %w", item.ProductID, apperrors.ErrInsufficientStock)
			}
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		for _, item := range items {
			product := products[item.ProductID]
			product.Quantity -= item.Quantity
			if err := tx.SaveProduct(ctx, product); err != nil {
				return err
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID:  item.ProductID,
				Quantity:   item.Quantity,
				TotalPrice: product.FinalPrice() * int64(item.Quantity),
			})
		}

		order = &models.Order{
			Reference: uuid.NewString(),
			UserID:    userID,
			AddressID: addressID,
			Status:    models.OrderStatusPending,
			Items:     orderItems,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		// Clearing inside the creating transaction ties the cart's fate
		// to the order row: no order, no lost cart.
		return tx.ClearCart(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	if s.onCreated != nil {
		s.onCreated(order)
	}
	return order, nil
}

// Cancel restores the reserved stock and marks the order Cancelled.
// Only the owner may cancel, and only while the order is still Pending.
func (s *OrderService) Cancel(ctx context.Context, orderID, userID uint) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.UserID != userID {
			return fmt.Errorf("user is not the order owner: %w", apperrors.ErrNotEnoughRights)
		}
		if order.Status != models.OrderStatusPending {
			return fmt.Errorf("only pending orders can be cancelled: %w", apperrors.ErrInvalidOrderStatus)
		}

		if err := restock(ctx, tx, order); err != nil {
			return err
		}
		// The conditional write makes the second of two racing cancels
		// fail here, rolling its restock back with the transaction.
		return tx.UpdateOrderStatus(ctx, orderID, models.OrderStatusPending, models.OrderStatusCancelled)
	})
}

// Withdraw restores stock and removes the order entirely. Used when the
// payment for it failed; paid orders are never withdrawn.
func (s *OrderService) Withdraw(ctx context.Context, orderID uint) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if order.IsPaid {
			return fmt.Errorf("paid orders cannot be withdrawn: %w", apperrors.ErrInvalidOrderStatus)
		}

		if err := restock(ctx, tx, order); err != nil {
			return err
		}
		return tx.DeleteOrder(ctx, orderID)
	})
}

// ChangeStatus moves an order along the transition table. Admin-only at the
// route level; no inventory side effects.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID uint, newStatus models.OrderStatus) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		order, err := tx.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if !transitionAllowed(order.Status, newStatus) {
			return fmt.Errorf("cannot move order from %s to %s: %w",
				order.Status, newStatus, apperrors.ErrInvalidOrderStatus)
		}
		return tx.UpdateOrderStatus(ctx, orderID, order.Status, newStatus)
	})
}

// Get returns the order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, orderID, userID uint) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		user, err := s.store.GetUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if !user.IsAdmin {
			return nil, fmt.Errorf("user is not the order owner: %w", apperrors.ErrNotEnoughRights)
		}
	}
	return order, nil
}

func (s *OrderService) GetByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	return s.store.OrdersByUser(ctx, userID)
}

func (s *OrderService) List(ctx context.Context, filter OrderFilter, page Pagination) ([]models.Order, error) {
	return s.store.ListOrders(ctx, filter, page)
}

// restock re-reads the order's products under write locks and returns the
// reserved quantities to inventory.
func restock(ctx context.Context, tx Store, order *models.Order) error {
	ids := make([]uint, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := lockProducts(ctx, tx, ids)
	if err != nil {
		return err
	}
	for _, item := range order.Items {
		product, ok := products[item.ProductID]
		if !ok {
			// The product was removed from the catalog since the
			// order was placed; nothing to return the stock to.
			continue
		}
		product.Quantity += item.Quantity
		if err := tx.SaveProduct(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// lockProducts acquires row locks in ascending id order so that two
// transactions reserving overlapping product sets cannot deadlock.
func lockProducts(ctx context.Context, tx Store, ids []uint) (map[uint]*models.Product, error) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	products, err := tx.ProductsForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

func productIDs(items []models.CartItem) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ParseOrderStatus validates a client-supplied status string.
func ParseOrderStatus(raw string) (models.OrderStatus, error) {
	switch models.OrderStatus(raw) {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusShipped, models.OrderStatusDelivered,
		models.OrderStatusCancelled:
		return models.OrderStatus(raw), nil
	default:
		return "", errors.New("invalid order status")
	}
}
