package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
)

type cartKey struct {
	userID    uint
	productID uint
}

type tokenKey struct {
	kind   models.TokenKind
	userID uint
}

// fakeStore is an in-memory Store for the service tests. Transaction runs
// the callback against a deep copy and merges it back only on success, so
// rollback behavior matches the real thing.
type fakeStore struct {
	products   map[uint]models.Product
	categories map[string]models.Category
	reviews    map[uint]models.Review
	addresses  map[uint]models.Address
	cartItems  map[cartKey]models.CartItem
	orders     map[uint]models.Order
	payments   map[string]models.Payment
	users      map[uint]models.User
	tokens     map[tokenKey]string

	nextReviewID  uint
	nextAddressID uint
	nextOrderID   uint
	nextPayID     uint
	nextUserID    uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:   map[uint]models.Product{},
		categories: map[string]models.Category{},
		reviews:    map[uint]models.Review{},
		addresses:  map[uint]models.Address{},
		cartItems:  map[cartKey]models.CartItem{},
		orders:     map[uint]models.Order{},
		payments:   map[string]models.Payment{},
		users:      map[uint]models.User{},
		tokens:     map[tokenKey]string{},
	}
}

func (f *fakeStore) clone() *fakeStore {
	c := newFakeStore()
	for k, v := range f.products {
		c.products[k] = v
	}
	for k, v := range f.categories {
		c.categories[k] = v
	}
	for k, v := range f.reviews {
		c.reviews[k] = v
	}
	for k, v := range f.addresses {
		c.addresses[k] = v
	}
	for k, v := range f.cartItems {
		c.cartItems[k] = v
	}
	for k, v := range f.orders {
		v.Items = append([]models.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range f.payments {
		c.payments[k] = v
	}
	for k, v := range f.users {
		c.users[k] = v
	}
	for k, v := range f.tokens {
		c.tokens[k] = v
	}
	c.nextReviewID = f.nextReviewID
	c.nextAddressID = f.nextAddressID
	c.nextOrderID = f.nextOrderID
	c.nextPayID = f.nextPayID
	c.nextUserID = f.nextUserID
	return c
}

func (f *fakeStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	scratch := f.clone()
	if err := fn(scratch); err != nil {
		return err
	}
	*f = *scratch
	return nil
}

// -------- products --------

func (f *fakeStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if product.ID == 0 {
		product.ID = uint(len(f.products) + 1)
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeStore) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("product %d: %w", id, apperrors.ErrResourceDoesNotExist)
	}
	return &p, nil
}

func (f *fakeStore) GetProductOrNil(ctx context.Context, id uint) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeStore) ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, p := range f.products {
		if len(filter.IDs) > 0 && !containsID(filter.IDs, p.ID) {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		if filter.Category != "" && !hasCategory(p, filter.Category) {
			continue
		}
		if filter.MinPrice != nil && p.Price < *filter.MinPrice {
			continue
		}
		if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
			continue
		}
		if filter.Enabled != nil && p.Enabled != *filter.Enabled {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ProductsForUpdate(ctx context.Context, ids []uint) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) SaveProduct(ctx context.Context, product *models.Product) error {
	f.products[product.ID] = *product
	return nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, id uint, patch map[string]any) error {
	p, ok := f.products[id]
	if !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	for col, val := range patch {
		switch col {
		case "title":
			p.Title = val.(string)
		case "description":
			p.Description = val.(string)
		case "price":
			p.Price = val.(int64)
		case "discount":
			p.Discount = val.(int)
		case "quantity":
			p.Quantity = val.(int)
		case "enabled":
			p.Enabled = val.(bool)
		}
	}
	f.products[id] = p
	return nil
}

func (f *fakeStore) DeleteProduct(ctx context.Context, id uint) error {
	if _, ok := f.products[id]; !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	delete(f.products, id)
	return nil
}

// -------- categories --------

func (f *fakeStore) CreateCategory(ctx context.Context, category *models.Category) error {
	if _, ok := f.categories[category.Name]; ok {
		return apperrors.ErrResourceAlreadyExists
	}
	f.categories[category.Name] = *category
	return nil
}

func (f *fakeStore) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	c, ok := f.categories[name]
	if !ok {
		return nil, apperrors.ErrResourceDoesNotExist
	}
	return &c, nil
}

func (f *fakeStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.categories {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) DeleteCategory(ctx context.Context, name string) error {
	if _, ok := f.categories[name]; !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	delete(f.categories, name)
	return nil
}

// -------- reviews --------

func (f *fakeStore) CreateReview(ctx context.Context, review *models.Review) error {
	for _, existing := range f.reviews {
		if existing.UserID == review.UserID && existing.ProductID == review.ProductID {
			return apperrors.ErrResourceAlreadyExists
		}
	}
	f.nextReviewID++
	review.ID = f.nextReviewID
	review.CreatedAt = time.Now()
	f.reviews[review.ID] = *review
	return nil
}

func (f *fakeStore) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	r, ok := f.reviews[id]
	if !ok {
		return nil, apperrors.ErrResourceDoesNotExist
	}
	return &r, nil
}

func (f *fakeStore) ReviewsByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) ReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var out []models.Review
	for _, r := range f.reviews {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteReview(ctx context.Context, id uint) error {
	if _, ok := f.reviews[id]; !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	delete(f.reviews, id)
	return nil
}

// -------- addresses --------

func (f *fakeStore) CreateAddress(ctx context.Context, address *models.Address) error {
	f.nextAddressID++
	address.ID = f.nextAddressID
	f.addresses[address.ID] = *address
	return nil
}

func (f *fakeStore) GetAddress(ctx context.Context, id uint) (*models.Address, error) {
	a, ok := f.addresses[id]
	if !ok {
		return nil, apperrors.ErrResourceDoesNotExist
	}
	return &a, nil
}

func (f *fakeStore) AddressesByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	var out []models.Address
	for _, a := range f.addresses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteAddress(ctx context.Context, id uint) error {
	if _, ok := f.addresses[id]; !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	delete(f.addresses, id)
	return nil
}

// -------- cart --------

func (f *fakeStore) CartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var out []models.CartItem
	for _, item := range f.cartItems {
		if item.UserID == userID {
			item.Product = f.products[item.ProductID]
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (f *fakeStore) GetCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	item, ok := f.cartItems[cartKey{userID, productID}]
	if !ok {
		return nil, nil
	}
	item.Product = f.products[item.ProductID]
	return &item, nil
}

func (f *fakeStore) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	key := cartKey{item.UserID, item.ProductID}
	if _, ok := f.cartItems[key]; ok {
		return apperrors.ErrResourceAlreadyExists
	}
	f.cartItems[key] = *item
	return nil
}

func (f *fakeStore) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	f.cartItems[cartKey{item.UserID, item.ProductID}] = *item
	return nil
}

func (f *fakeStore) DeleteCartItem(ctx context.Context, userID, productID uint) error {
	delete(f.cartItems, cartKey{userID, productID})
	return nil
}

func (f *fakeStore) ClearCart(ctx context.Context, userID uint) error {
	for key := range f.cartItems {
		if key.userID == userID {
			delete(f.cartItems, key)
		}
	}
	return nil
}

// -------- orders --------

func (f *fakeStore) CreateOrder(ctx context.Context, order *models.Order) error {
	f.nextOrderID++
	order.ID = f.nextOrderID
	order.CreatedAt = time.Now()
	for i := range order.Items {
		order.Items[i].OrderID = order.ID
	}
	f.orders[order.ID] = *order
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	o, ok := f.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %d: %w", id, apperrors.ErrResourceDoesNotExist)
	}
	o.Items = append([]models.OrderItem(nil), o.Items...)
	return &o, nil
}

func (f *fakeStore) SaveOrder(ctx context.Context, order *models.Order) error {
	existing, ok := f.orders[order.ID]
	if !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	existing.Status = order.Status
	existing.IsPaid = order.IsPaid
	f.orders[order.ID] = existing
	return nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error {
	o, ok := f.orders[orderID]
	if !ok || o.Status != from {
		return fmt.Errorf("order %d is no longer %s: %w", orderID, from, apperrors.ErrInvalidOrderStatus)
	}
	o.Status = to
	f.orders[orderID] = o
	return nil
}

func (f *fakeStore) DeleteOrder(ctx context.Context, id uint) error {
	if _, ok := f.orders[id]; !ok {
		return fmt.Errorf("order %d: %w", id, apperrors.ErrResourceDoesNotExist)
	}
	delete(f.orders, id)
	return nil
}

func (f *fakeStore) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) ListOrders(ctx context.Context, filter OrderFilter, page Pagination) ([]models.Order, error) {
	var out []models.Order
	for _, o := range f.orders {
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		if filter.CreatedAfter != nil && !o.CreatedAt.After(*filter.CreatedAfter) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if page.Offset > len(out) {
		return nil, nil
	}
	out = out[page.Offset:]
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out, nil
}

// -------- payments --------

func (f *fakeStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if _, ok := f.payments[payment.IntentID]; ok {
		return apperrors.ErrResourceAlreadyExists
	}
	f.nextPayID++
	payment.ID = f.nextPayID
	f.payments[payment.IntentID] = *payment
	return nil
}

func (f *fakeStore) PaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	p, ok := f.payments[intentID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// -------- users --------

func (f *fakeStore) CreateUser(ctx context.Context, user *models.User) error {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return apperrors.ErrResourceAlreadyExists
		}
	}
	f.nextUserID++
	user.ID = f.nextUserID
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) GetUser(ctx context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrResourceDoesNotExist)
	}
	return &u, nil
}

func (f *fakeStore) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) SaveUser(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID]; !ok {
		return apperrors.ErrResourceDoesNotExist
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeStore) ListUsers(ctx context.Context, page Pagination) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if page.Offset > len(out) {
		return nil, nil
	}
	out = out[page.Offset:]
	if page.Limit > 0 && page.Limit < len(out) {
		out = out[:page.Limit]
	}
	return out, nil
}

// -------- tokens --------

func (f *fakeStore) UpsertToken(ctx context.Context, kind models.TokenKind, userID uint, token string) error {
	f.tokens[tokenKey{kind, userID}] = token
	return nil
}

func (f *fakeStore) GetToken(ctx context.Context, kind models.TokenKind, userID uint) (string, error) {
	return f.tokens[tokenKey{kind, userID}], nil
}

func (f *fakeStore) DeleteToken(ctx context.Context, kind models.TokenKind, userID uint) error {
	delete(f.tokens, tokenKey{kind, userID})
	return nil
}

func containsID(ids []uint, id uint) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func hasCategory(p models.Product, name string) bool {
	for _, c := range p.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

var _ Store = (*fakeStore)(nil)
