package crud

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ivan-22-3-5/e-commerce/apperrors"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/service"
)

// Store is the gorm-backed implementation of service.Store.
type Store struct {
	db *gorm.DB

	products      repo[models.Product, uint]
	categories    repo[models.Category, string]
	reviews       repo[models.Review, uint]
	addresses     repo[models.Address, uint]
	orders        repo[models.Order, uint]
	payments      repo[models.Payment, uint]
	users         repo[models.User, uint]
	refreshTokens repo[models.RefreshToken, uint]
	recoveryToks  repo[models.RecoveryToken, uint]
	confirmToks   repo[models.ConfirmationToken, uint]
}

var _ service.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		products:      newRepo[models.Product, uint](db, "id"),
		categories:    newRepo[models.Category, string](db, "name"),
		reviews:       newRepo[models.Review, uint](db, "id"),
		addresses:     newRepo[models.Address, uint](db, "id"),
		orders:        newRepo[models.Order, uint](db, "id"),
		payments:      newRepo[models.Payment, uint](db, "id"),
		users:         newRepo[models.User, uint](db, "id"),
		refreshTokens: newRepo[models.RefreshToken, uint](db, "user_id"),
		recoveryToks:  newRepo[models.RecoveryToken, uint](db, "user_id"),
		confirmToks:   newRepo[models.ConfirmationToken, uint](db, "user_id"),
	}
}

func (s *Store) Transaction(ctx context.Context, fn func(tx service.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// -------- products --------

func (s *Store) CreateProduct(ctx context.Context, product *models.Product) error {
	return s.products.create(ctx, product)
}

func (s *Store) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.WithContext(ctx).
		Preload("Categories").
		Preload("Images").
		Preload("Reviews").
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, translateGetErr(err)
	}
	return &product, nil
}

func (s *Store) GetProductOrNil(ctx context.Context, id uint) (*models.Product, error) {
	return s.products.getOrNil(ctx, id)
}

func (s *Store) ListProducts(ctx context.Context, filter service.ProductFilter) ([]models.Product, error) {
	query := s.db.WithContext(ctx).Model(&models.Product{}).
		Preload("Categories").
		Preload("Images").
		Preload("Reviews")

	if len(filter.IDs) > 0 {
		query = query.Where("id IN ?", filter.IDs)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	if filter.Category != "" {
		query = query.
			Joins("JOIN product_categories pc ON pc.product_id = products.id").
			Where("pc.category_name = ?", filter.Category)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Enabled != nil {
		query = query.Where("enabled = ?", *filter.Enabled)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) ProductsForUpdate(ctx context.Context, ids []uint) ([]models.Product, error) {
	var products []models.Product
	err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) SaveProduct(ctx context.Context, product *models.Product) error {
	return s.products.save(ctx, product)
}

func (s *Store) UpdateProduct(ctx context.Context, id uint, patch map[string]any) error {
	return s.products.update(ctx, id, patch)
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	return s.products.delete(ctx, id)
}

// -------- categories --------

func (s *Store) CreateCategory(ctx context.Context, category *models.Category) error {
	return s.categories.create(ctx, category)
}

func (s *Store) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	return s.categories.get(ctx, name)
}

func (s *Store) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (s *Store) DeleteCategory(ctx context.Context, name string) error {
	return s.categories.delete(ctx, name)
}

// -------- reviews --------

func (s *Store) CreateReview(ctx context.Context, review *models.Review) error {
	return s.reviews.create(ctx, review)
}

func (s *Store) GetReview(ctx context.Context, id uint) (*models.Review, error) {
	return s.reviews.get(ctx, id)
}

func (s *Store) ReviewsByProduct(ctx context.Context, productID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Store) ReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&reviews).Error
	return reviews, err
}

func (s *Store) DeleteReview(ctx context.Context, id uint) error {
	return s.reviews.delete(ctx, id)
}

// -------- addresses --------

func (s *Store) CreateAddress(ctx context.Context, address *models.Address) error {
	return s.addresses.create(ctx, address)
}

func (s *Store) GetAddress(ctx context.Context, id uint) (*models.Address, error) {
	return s.addresses.get(ctx, id)
}

func (s *Store) AddressesByUser(ctx context.Context, userID uint) ([]models.Address, error) {
	var addresses []models.Address
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&addresses).Error
	return addresses, err
}

func (s *Store) DeleteAddress(ctx context.Context, id uint) error {
	return s.addresses.delete(ctx, id)
}

// -------- cart --------

func (s *Store) CartItems(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Reviews").
		Where("user_id = ?", userID).
		Order("added_at").
		Find(&items).Error
	return items, err
}

func (s *Store) GetCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error) {
	var items []models.CartItem
	err := s.db.WithContext(ctx).
		Limit(1).
		Find(&items, "user_id = ? AND product_id = ?", userID, productID).Error
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (s *Store) CreateCartItem(ctx context.Context, item *models.CartItem) error {
	return translateWriteErr(s.db.WithContext(ctx).Create(item).Error)
}

func (s *Store) SaveCartItem(ctx context.Context, item *models.CartItem) error {
	return translateWriteErr(s.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		Update("quantity", item.Quantity).Error)
}

func (s *Store) DeleteCartItem(ctx context.Context, userID, productID uint) error {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return translateDeleteErr(res.Error)
	}
	return nil
}

func (s *Store) ClearCart(ctx context.Context, userID uint) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).Error
}

// -------- orders --------

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	return s.orders.create(ctx, order)
}

func (s *Store) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Address").
		First(&order, "id = ?", id).Error
	if err != nil {
		return nil, translateGetErr(err)
	}
	return &order, nil
}

func (s *Store) SaveOrder(ctx context.Context, order *models.Order) error {
	// Save would cascade into the loaded item associations; the order row
	// itself is all that changes after creation.
	return translateWriteErr(s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", order.ID).
		Updates(map[string]any{"status": order.Status, "is_paid": order.IsPaid}).Error)
}

func (s *Store) UpdateOrderStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error {
	res := s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)
	if res.Error != nil {
		return translateWriteErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d is no longer %s: %w", orderID, from, apperrors.ErrInvalidOrderStatus)
	}
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
			return translateDeleteErr(err)
		}
		res := tx.Where("id = ?", id).Delete(&models.Order{})
		if res.Error != nil {
			return translateDeleteErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("order %d: %w", id, apperrors.ErrResourceDoesNotExist)
		}
		return nil
	})
}

func (s *Store) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Address").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

func (s *Store) ListOrders(ctx context.Context, filter service.OrderFilter, page service.Pagination) ([]models.Order, error) {
	query := s.db.WithContext(ctx).Model(&models.Order{}).
		Preload("Items").
		Preload("Items.Product")

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if page.Limit > 0 {
		query = query.Limit(page.Limit).Offset(page.Offset)
	}

	var orders []models.Order
	err := query.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// -------- payments --------

func (s *Store) CreatePayment(ctx context.Context, payment *models.Payment) error {
	return s.payments.create(ctx, payment)
}

func (s *Store) PaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).Limit(1).Find(&payments, "intent_id = ?", intentID).Error
	if err != nil {
		return nil, err
	}
	if len(payments) == 0 {
		return nil, nil
	}
	return &payments[0], nil
}

// -------- users --------

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.users.create(ctx, user)
}

func (s *Store) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.get(ctx, id)
}

func (s *Store) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).Limit(1).Find(&users, "email = ?", email).Error
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, nil
	}
	return &users[0], nil
}

func (s *Store) SaveUser(ctx context.Context, user *models.User) error {
	return s.users.save(ctx, user)
}

func (s *Store) ListUsers(ctx context.Context, page service.Pagination) ([]models.User, error) {
	query := s.db.WithContext(ctx).Model(&models.User{})
	if page.Limit > 0 {
		query = query.Limit(page.Limit).Offset(page.Offset)
	}
	var users []models.User
	err := query.Order("created_at DESC").Find(&users).Error
	return users, err
}

// -------- tokens --------

func (s *Store) UpsertToken(ctx context.Context, kind models.TokenKind, userID uint, token string) error {
	upsert := clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token"}),
	}
	db := s.db.WithContext(ctx).Clauses(upsert)
	switch kind {
	case models.TokenKindRefresh:
		return translateWriteErr(db.Create(&models.RefreshToken{UserID: userID, Token: token}).Error)
	case models.TokenKindRecovery:
		return translateWriteErr(db.Create(&models.RecoveryToken{UserID: userID, Token: token}).Error)
	case models.TokenKindConfirmation:
		return translateWriteErr(db.Create(&models.ConfirmationToken{UserID: userID, Token: token}).Error)
	default:
		return fmt.Errorf("unknown token kind %q", kind)
	}
}

// GetToken returns the live token for the user, or "" when none is stored.
func (s *Store) GetToken(ctx context.Context, kind models.TokenKind, userID uint) (string, error) {
	switch kind {
	case models.TokenKindRefresh:
		row, err := s.refreshTokens.getOrNil(ctx, userID)
		if err != nil || row == nil {
			return "", err
		}
		return row.Token, nil
	case models.TokenKindRecovery:
		row, err := s.recoveryToks.getOrNil(ctx, userID)
		if err != nil || row == nil {
			return "", err
		}
		return row.Token, nil
	case models.TokenKindConfirmation:
		row, err := s.confirmToks.getOrNil(ctx, userID)
		if err != nil || row == nil {
			return "", err
		}
		return row.Token, nil
	default:
		return "", fmt.Errorf("unknown token kind %q", kind)
	}
}

func (s *Store) DeleteToken(ctx context.Context, kind models.TokenKind, userID uint) error {
	var err error
	switch kind {
	case models.TokenKindRefresh:
		err = s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RefreshToken{}).Error
	case models.TokenKindRecovery:
		err = s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.RecoveryToken{}).Error
	case models.TokenKindConfirmation:
		err = s.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ConfirmationToken{}).Error
	default:
		return fmt.Errorf("unknown token kind %q", kind)
	}
	return err
}
