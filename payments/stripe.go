// Package payments wraps the Stripe SDK behind the checkout gateway the
// payment service consumes.
package payments

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/client"
	"github.com/stripe/stripe-go/v79/webhook"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/service"
)

type Config struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	Currency      string
}

type StripeGateway struct {
	api           *client.API
	webhookSecret string
	successURL    string
	currency      string
}

var _ service.CheckoutGateway = (*StripeGateway)(nil)

func NewStripeGateway(cfg Config) *StripeGateway {
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &StripeGateway{
		api:           api,
		webhookSecret: cfg.WebhookSecret,
		successURL:    cfg.SuccessURL,
		currency:      cfg.Currency,
	}
}

// CreateCheckoutSession builds a hosted checkout for the order. The order id
// and user id travel in metadata and come back on every webhook event.
func (g *StripeGateway) CreateCheckoutSession(ctx context.Context, order *models.Order) (*service.CheckoutSession, error) {
	lineItems, err := buildLineItems(order, g.currency)
	if err != nil {
		return nil, err
	}

	metadata := map[string]string{
		"order_id": strconv.FormatUint(uint64(order.ID), 10),
		"user_id":  strconv.FormatUint(uint64(order.UserID), 10),
	}
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(g.successURL),
		LineItems:  lineItems,
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	session, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, err
	}
	return &service.CheckoutSession{ID: session.ID, URL: session.URL}, nil
}

// buildLineItems derives per-unit prices from the frozen order item totals;
// a zero quantity line would make that division meaningless and cannot occur
// in a well-formed order.
func buildLineItems(order *models.Order, currency string) ([]*stripe.CheckoutSessionLineItemParams, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(order.Items))
	for _, item := range order.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("order %d has a non-positive quantity for product %d", order.ID, item.ProductID)
		}
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(currency),
				UnitAmount: stripe.Int64(item.TotalPrice / int64(item.Quantity)),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Product.Title),
				},
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	return lineItems, nil
}

// VerifyEvent checks the webhook signature over the raw payload. Events that
// fail verification must never be processed.
func (g *StripeGateway) VerifyEvent(payload []byte, signatureHeader string) (stripe.Event, error) {
	event, err := webhook.ConstructEvent(payload, signatureHeader, g.webhookSecret)
	if err != nil {
		return stripe.Event{}, fmt.Errorf("webhook verification failed: %v: %w", err, apperrors.ErrInvalidSignature)
	}
	return event, nil
}

// NormalizeEvent reduces a verified Stripe event to the neutral form the
// payment service handles. The second return value is false for event types
// the workflow does not care about.
func NormalizeEvent(event stripe.Event) (service.WebhookEvent, bool, error) {
	switch event.Type {
	case "payment_intent.succeeded":
		return normalizeIntent(event, service.EventPaymentSucceeded)
	case "payment_intent.payment_failed":
		return normalizeIntent(event, service.EventPaymentFailed)
	case "checkout.session.completed":
		return normalizeCheckoutSession(event)
	default:
		return service.WebhookEvent{}, false, nil
	}
}

func normalizeIntent(event stripe.Event, eventType string) (service.WebhookEvent, bool, error) {
	var intent stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &intent); err != nil {
		return service.WebhookEvent{}, false, fmt.Errorf("malformed payment intent payload: %w", apperrors.ErrInvalidPayload)
	}
	orderID, userID, err := idsFromMetadata(intent.Metadata)
	if err != nil {
		return service.WebhookEvent{}, false, err
	}

	normalized := service.WebhookEvent{
		Type:     eventType,
		OrderID:  orderID,
		UserID:   userID,
		IntentID: intent.ID,
		Amount:   intent.Amount,
		Currency: string(intent.Currency),
	}
	if intent.PaymentMethod != nil {
		normalized.PaymentMethod = intent.PaymentMethod.ID
	}
	return normalized, true, nil
}

func normalizeCheckoutSession(event stripe.Event) (service.WebhookEvent, bool, error) {
	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return service.WebhookEvent{}, false, fmt.Errorf("malformed checkout session payload: %w", apperrors.ErrInvalidPayload)
	}
	orderID, userID, err := idsFromMetadata(session.Metadata)
	if err != nil {
		return service.WebhookEvent{}, false, err
	}

	normalized := service.WebhookEvent{
		Type:     service.EventPaymentSucceeded,
		OrderID:  orderID,
		UserID:   userID,
		Amount:   session.AmountTotal,
		Currency: string(session.Currency),
	}
	if session.PaymentIntent != nil {
		normalized.IntentID = session.PaymentIntent.ID
	}
	return normalized, true, nil
}

func idsFromMetadata(metadata map[string]string) (orderID, userID uint, err error) {
	rawOrder, ok := metadata["order_id"]
	if !ok {
		return 0, 0, fmt.Errorf("event metadata has no order_id: %w", apperrors.ErrInvalidPayload)
	}
	parsedOrder, err := strconv.ParseUint(rawOrder, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("event metadata order_id is not numeric: %w", apperrors.ErrInvalidPayload)
	}
	parsedUser, err := strconv.ParseUint(metadata["user_id"], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("event metadata user_id is not numeric: %w", apperrors.ErrInvalidPayload)
	}
	return uint(parsedOrder), uint(parsedUser), nil
}
