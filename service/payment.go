package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

// CheckoutGateway creates hosted checkout sessions with the external
// payment provider.
type CheckoutGateway interface {
	CreateCheckoutSession(ctx context.Context, order *models.Order) (*CheckoutSession, error)
}

type CheckoutSession struct {
	ID  string
	URL string
}

// Webhook event types after normalization from the gateway's wire format.
const (
	EventPaymentSucceeded = "payment_succeeded"
	EventPaymentFailed    = "payment_failed"
)

// WebhookEvent is a gateway callback reduced to the fields the workflow
// needs; the metadata echoes what checkout creation embedded.
type WebhookEvent struct {
	Type          string
	OrderID       uint
	UserID        uint
	IntentID      string
	Amount        int64
	Currency      string
	PaymentMethod string
}

type PaymentService struct {
	store   Store
	gateway CheckoutGateway
	orders  *OrderService
}

func NewPaymentService(store Store, gateway CheckoutGateway, orders *OrderService) *PaymentService {
	return &PaymentService{store: store, gateway: gateway, orders: orders}
}

// InitiateCheckout builds a gateway checkout session for the order and
// returns the redirect URL.
func (s *PaymentService) InitiateCheckout(ctx context.Context, orderID, userID uint) (string, error) {
	order, err := s.store.GetOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.UserID != userID {
		return "", fmt.Errorf("user is not the order owner: %w", apperrors.ErrNotEnoughRights)
	}
	if order.Status != models.OrderStatusPending {
		return "", fmt.Errorf("only pending orders can be paid for: %w", apperrors.ErrInvalidOrderStatus)
	}
	if order.IsPaid {
		return "", fmt.Errorf("order is already paid: %w", apperrors.ErrInvalidOrderStatus)
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, order)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %v: %w", err, apperrors.ErrPaymentGateway)
	}
	return session.URL, nil
}

// HandleEvent applies a verified gateway event to the referenced order.
// Delivery is at-least-once, so every branch tolerates replays.
func (s *PaymentService) HandleEvent(ctx context.Context, event WebhookEvent) error {
	switch event.Type {
	case EventPaymentSucceeded:
		return s.handleSucceeded(ctx, event)
	case EventPaymentFailed:
		return s.handleFailed(ctx, event)
	default:
		log.Printf("ignoring unhandled payment event type %q", event.Type)
		return nil
	}
}

func (s *PaymentService) handleSucceeded(ctx context.Context, event WebhookEvent) error {
	return s.store.Transaction(ctx, func(tx Store) error {
		order, err := tx.GetOrder(ctx, event.OrderID)
		if err != nil {
			if errors.Is(err, apperrors.ErrResourceDoesNotExist) {
				log.Printf("payment succeeded for unknown order %d, dropping", event.OrderID)
				return nil
			}
			return err
		}
		if order.Status == models.OrderStatusCancelled {
			// The stock went back to the shelf when the order was
			// cancelled; marking it paid would charge the customer
			// for inventory the order no longer holds.
			log.Printf("payment succeeded for cancelled order %d, dropping", event.OrderID)
			return nil
		}
		if order.IsPaid {
			// Replayed delivery; the first one already did the work.
			return nil
		}
		recorded, err := tx.PaymentByIntentID(ctx, event.IntentID)
		if err != nil {
			return err
		}
		if recorded != nil {
			// The intent was already recorded against some order.
			return nil
		}

		order.IsPaid = true
		if err := tx.SaveOrder(ctx, order); err != nil {
			return err
		}
		err = tx.CreatePayment(ctx, &models.Payment{
			UserID:        event.UserID,
			OrderID:       event.OrderID,
			Amount:        event.Amount,
			Currency:      event.Currency,
			PaymentMethod: event.PaymentMethod,
			IntentID:      event.IntentID,
		})
		if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
			// The unique intent id is the backstop against recording a
			// replayed event as a second payment.
			return nil
		}
		return err
	})
}

func (s *PaymentService) handleFailed(ctx context.Context, event WebhookEvent) error {
	err := s.orders.Withdraw(ctx, event.OrderID)
	if errors.Is(err, apperrors.ErrResourceDoesNotExist) {
		// Already withdrawn by an earlier delivery of the same event.
		return nil
	}
	if errors.Is(err, apperrors.ErrInvalidOrderStatus) {
		// A success event won the race; keep the paid order.
		log.Printf("payment failed event for paid order %d, dropping", event.OrderID)
		return nil
	}
	return err
}
