package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

func seedCustomer(store *fakeStore) (userID, addressID uint) {
	store.nextUserID++
	userID = store.nextUserID
	store.users[userID] = models.User{ID: userID, Email: "buyer@example.com", IsConfirmed: true}

	store.nextAddressID++
	addressID = store.nextAddressID
	store.addresses[addressID] = models.Address{ID: addressID, UserID: userID}
	return userID, addressID
}

func seedProduct(store *fakeStore, id uint, price int64, discount, quantity int) {
	store.products[id] = models.Product{
		ID:       id,
		Title:    "product",
		Price:    price,
		Discount: discount,
		Quantity: quantity,
		Enabled:  true,
	}
}

func addToCart(store *fakeStore, userID, productID uint, quantity int) {
	store.cartItems[cartKey{userID, productID}] = models.CartItem{
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
}

func TestCreateOrder(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 10, 5)
	addToCart(store, userID, 1, 2)

	orders := NewOrderService(store)
	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.False(t, order.IsPaid)
	assert.NotEmpty(t, order.Reference)
	require.Len(t, order.Items, 1)
	// 10% off 1000 is 900 per unit, frozen at creation time.
	assert.Equal(t, int64(1800), order.Items[0].TotalPrice)
	assert.Equal(t, int64(1800), order.TotalPrice())

	assert.Equal(t, 3, store.products[1].Quantity)
	assert.Empty(t, store.cartItems, "cart must be cleared by the same transaction")
}

func TestCreateOrderSequentialReservations(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 500, 0, 5)

	orders := NewOrderService(store)

	addToCart(store, userID, 1, 3)
	_, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.products[1].Quantity)

	addToCart(store, userID, 1, 3)
	_, err = orders.Create(context.Background(), userID, addressID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.Equal(t, 2, store.products[1].Quantity, "failed reservation must not touch stock")
}

func TestCreateOrderEmptyCart(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)

	orders := NewOrderService(store)
	_, err := orders.Create(context.Background(), userID, addressID)
	assert.ErrorIs(t, err, apperrors.ErrEmptyCart)
}

func TestCreateOrderNoPartialReservation(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 10)
	seedProduct(store, 2, 2000, 0, 1)
	addToCart(store, userID, 1, 4)
	addToCart(store, userID, 2, 3)

	orders := NewOrderService(store)
	_, err := orders.Create(context.Background(), userID, addressID)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)

	assert.Equal(t, 10, store.products[1].Quantity)
	assert.Equal(t, 1, store.products[2].Quantity)
	assert.Len(t, store.cartItems, 2, "cart must survive a failed order")
	assert.Empty(t, store.orders)
}

func TestCreateOrderRequiresConfirmedEmail(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	user := store.users[userID]
	user.IsConfirmed = false
	store.users[userID] = user

	orders := NewOrderService(store)
	_, err := orders.Create(context.Background(), userID, addressID)
	assert.ErrorIs(t, err, apperrors.ErrEmailNotConfirmed)
}

func TestCreateOrderForeignAddress(t *testing.T) {
	store := newFakeStore()
	userID, _ := seedCustomer(store)
	_, otherAddressID := seedCustomer(store)

	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 1)

	orders := NewOrderService(store)
	_, err := orders.Create(context.Background(), userID, otherAddressID)
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughRights)
}

func TestCreateOrderFiresCallback(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 1)

	orders := NewOrderService(store)
	var got *models.Order
	orders.OnCreated(func(order *models.Order) { got = order })

	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, order.ID, got.ID)
}

func TestCancelOrder(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 2)

	orders := NewOrderService(store)
	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)
	require.Equal(t, 3, store.products[1].Quantity)

	require.NoError(t, orders.Cancel(context.Background(), order.ID, userID))

	assert.Equal(t, models.OrderStatusCancelled, store.orders[order.ID].Status)
	assert.Equal(t, 5, store.products[1].Quantity, "cancelling must restore the reserved stock")
}

func TestCancelOrderTwice(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 2)

	orders := NewOrderService(store)
	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)
	require.NoError(t, orders.Cancel(context.Background(), order.ID, userID))

	err = orders.Cancel(context.Background(), order.ID, userID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrderStatus)
	assert.Equal(t, 5, store.products[1].Quantity, "a repeated cancel must not restock again")
}

func TestCancelOrderNotOwner(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	strangerID, _ := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 1)

	orders := NewOrderService(store)
	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)

	err = orders.Cancel(context.Background(), order.ID, strangerID)
	assert.ErrorIs(t, err, apperrors.ErrNotEnoughRights)
}

func TestCancelOrderNotPending(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 1)

	orders := NewOrderService(store)
	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)
	require.NoError(t, orders.ChangeStatus(context.Background(), order.ID, models.OrderStatusConfirmed))

	err = orders.Cancel(context.Background(), order.ID, userID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrderStatus)
	assert.Equal(t, 4, store.products[1].Quantity, "no restock for a refused cancel")
}

func TestChangeStatusTransitions(t *testing.T) {
	cases := []struct {
		from    models.OrderStatus
		to      models.OrderStatus
		allowed bool
	}{
		{models.OrderStatusPending, models.OrderStatusConfirmed, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusShipped, false},
		{models.OrderStatusConfirmed, models.OrderStatusShipped, true},
		{models.OrderStatusConfirmed, models.OrderStatusPending, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusDelivered, models.OrderStatusShipped, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
	}

	for _, tc := range cases {
		t.Run(string(tc.from)+"_to_"+string(tc.to), func(t *testing.T) {
			store := newFakeStore()
			store.nextOrderID = 1
			store.orders[1] = models.Order{ID: 1, UserID: 1, Status: tc.from}

			orders := NewOrderService(store)
			err := orders.ChangeStatus(context.Background(), 1, tc.to)
			if tc.allowed {
				assert.NoError(t, err)
				assert.Equal(t, tc.to, store.orders[1].Status)
			} else {
				assert.ErrorIs(t, err, apperrors.ErrInvalidOrderStatus)
				assert.Equal(t, tc.from, store.orders[1].Status)
			}
		})
	}
}

func TestWithdrawOrder(t *testing.T) {
	store := newFakeStore()
	userID, addressID := seedCustomer(store)
	seedProduct(store, 1, 1000, 0, 5)
	addToCart(store, userID, 1, 2)

	orders := NewOrderService(store)
	order, err := orders.Create(context.Background(), userID, addressID)
	require.NoError(t, err)

	require.NoError(t, orders.Withdraw(context.Background(), order.ID))

	assert.NotContains(t, store.orders, order.ID)
	assert.Equal(t, 5, store.products[1].Quantity)
}

func TestWithdrawPaidOrder(t *testing.T) {
	store := newFakeStore()
	store.orders[7] = models.Order{ID: 7, UserID: 1, Status: models.OrderStatusPending, IsPaid: true}

	orders := NewOrderService(store)
	err := orders.Withdraw(context.Background(), 7)
	assert.ErrorIs(t, err, apperrors.ErrInvalidOrderStatus)
	assert.Contains(t, store.orders, uint(7))
}

func TestWithdrawRestockSkipsDeletedProduct(t *testing.T) {
	store := newFakeStore()
	store.orders[3] = models.Order{
		ID:     3,
		UserID: 1,
		Status: models.OrderStatusPending,
		Items:  []models.OrderItem{{OrderID: 3, ProductID: 99, Quantity: 2, TotalPrice: 200}},
	}

	orders := NewOrderService(store)
	assert.NoError(t, orders.Withdraw(context.Background(), 3))
	assert.NotContains(t, store.orders, uint(3))
}

func TestParseOrderStatus(t *testing.T) {
	status, err := ParseOrderStatus("Shipped")
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusShipped, status)

	_, err = ParseOrderStatus("Teleported")
	assert.Error(t, err)
}
