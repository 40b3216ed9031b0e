package service

import (
	"context"
	"time"

	"github.com/ivan-22-3-5/e-commerce/models"
)

// Store is the persistence gateway the services run on. The gorm-backed
// implementation lives in the crud package; tests substitute an in-memory
// fake. Transaction yields a Store bound to the open transaction, and the
// whole callback commits or rolls back as one unit.
type Store interface {
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// products
	CreateProduct(ctx context.Context, product *models.Product) error
	GetProduct(ctx context.Context, id uint) (*models.Product, error)
	GetProductOrNil(ctx context.Context, id uint) (*models.Product, error)
	ListProducts(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	// ProductsForUpdate reads the given products under row-level write
	// locks, in ascending id order so concurrent reservations cannot
	// deadlock each other.
	ProductsForUpdate(ctx context.Context, ids []uint) ([]models.Product, error)
	SaveProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uint, patch map[string]any) error
	DeleteProduct(ctx context.Context, id uint) error

	// categories
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategory(ctx context.Context, name string) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	DeleteCategory(ctx context.Context, name string) error

	// reviews
	CreateReview(ctx context.Context, review *models.Review) error
	GetReview(ctx context.Context, id uint) (*models.Review, error)
	ReviewsByProduct(ctx context.Context, productID uint) ([]models.Review, error)
	ReviewsByUser(ctx context.Context, userID uint) ([]models.Review, error)
	DeleteReview(ctx context.Context, id uint) error

	// addresses
	CreateAddress(ctx context.Context, address *models.Address) error
	GetAddress(ctx context.Context, id uint) (*models.Address, error)
	AddressesByUser(ctx context.Context, userID uint) ([]models.Address, error)
	DeleteAddress(ctx context.Context, id uint) error

	// cart
	CartItems(ctx context.Context, userID uint) ([]models.CartItem, error)
	GetCartItem(ctx context.Context, userID, productID uint) (*models.CartItem, error)
	CreateCartItem(ctx context.Context, item *models.CartItem) error
	SaveCartItem(ctx context.Context, item *models.CartItem) error
	DeleteCartItem(ctx context.Context, userID, productID uint) error
	ClearCart(ctx context.Context, userID uint) error

	// orders
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id uint) (*models.Order, error)
	SaveOrder(ctx context.Context, order *models.Order) error
	// UpdateOrderStatus flips the status only while the row still holds
	// the expected one, so concurrent transitions cannot both win.
	UpdateOrderStatus(ctx context.Context, orderID uint, from, to models.OrderStatus) error
	DeleteOrder(ctx context.Context, id uint) error
	OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error)
	ListOrders(ctx context.Context, filter OrderFilter, page Pagination) ([]models.Order, error)

	// payments
	CreatePayment(ctx context.Context, payment *models.Payment) error
	PaymentByIntentID(ctx context.Context, intentID string) (*models.Payment, error)

	// users
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id uint) (*models.User, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	SaveUser(ctx context.Context, user *models.User) error
	ListUsers(ctx context.Context, page Pagination) ([]models.User, error)

	// tokens
	UpsertToken(ctx context.Context, kind models.TokenKind, userID uint, token string) error
	GetToken(ctx context.Context, kind models.TokenKind, userID uint) (string, error)
	DeleteToken(ctx context.Context, kind models.TokenKind, userID uint) error
}

type ProductFilter struct {
	IDs      []uint
	Category string
	Search   string
	MinPrice *int64
	MaxPrice *int64
	Enabled  *bool
}

type OrderFilter struct {
	Status       *models.OrderStatus
	CreatedAfter *time.Time
}

type Pagination struct {
	Limit  int
	Offset int
}
