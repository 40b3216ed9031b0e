package apperrors

import (
	"errors"
	"net/http"
)

// Domain errors raised by the service and persistence layers.
// Handlers translate them to HTTP statuses at the boundary; wrap with
// fmt.Errorf("...: %w", Err...) to attach context.
var (
	ErrResourceDoesNotExist  = errors.New("resource does not exist")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrDependentEntityExists = errors.New("dependent entity exists")

	ErrEmptyCart          = errors.New("cart is empty")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInvalidOrderStatus = errors.New("invalid order status")

	ErrNotEnoughRights   = errors.New("not enough rights")
	ErrEmailNotConfirmed = errors.New("email is not confirmed")

	ErrInvalidToken            = errors.New("invalid token")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrInvalidConfirmationCode = errors.New("invalid confirmation code")

	ErrPaymentGateway   = errors.New("payment gateway error")
	ErrInvalidPayload   = errors.New("invalid payload")
	ErrInvalidSignature = errors.New("invalid signature")
)

// HTTPStatus maps a domain error to the response status the API returns for it.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrResourceDoesNotExist):
		return http.StatusNotFound
	case errors.Is(err, ErrResourceAlreadyExists),
		errors.Is(err, ErrDependentEntityExists),
		errors.Is(err, ErrInsufficientStock),
		errors.Is(err, ErrInvalidOrderStatus):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyCart),
		errors.Is(err, ErrInvalidPayload),
		errors.Is(err, ErrInvalidConfirmationCode):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotEnoughRights), errors.Is(err, ErrEmailNotConfirmed):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidSignature):
		return http.StatusUnauthorized
	case errors.Is(err, ErrPaymentGateway):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
