package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/payments"
)

// UserRepository persists user documents, their addresses and reset codes.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) error
	// UpdatePassword replaces the hash and clears the reset slot.
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	SetResetCode(ctx context.Context, id primitive.ObjectID, code *models.ResetCode) error
	DeleteUser(ctx context.Context, id primitive.ObjectID) error

	AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) error
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, addrID string, addr models.ShippingAddress) error
	DeleteAddress(ctx context.Context, userID primitive.ObjectID, addrID string) error

	PushOrder(ctx context.Context, userID, orderID primitive.ObjectID) error
	ClearOrderRefs(ctx context.Context, userID primitive.ObjectID) error
}

// CartRepository mutates the cart embedded in a user document.
type CartRepository interface {
	GetCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error)
	// AddCartCount increments an existing line or appends a new one.
	AddCartCount(ctx context.Context, userID, productID primitive.ObjectID, delta int) error
	// SetCartCount overwrites the count of an existing line; ErrNotFound when absent.
	SetCartCount(ctx context.Context, userID, productID primitive.ObjectID, count int) error
	RemoveCartItem(ctx context.Context, userID, productID primitive.ObjectID) error
	ClearCart(ctx context.Context, userID primitive.ObjectID) error
}

type ProductRepository interface {
	GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
}

type CategoryRepository interface {
	GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c *models.Category) error
}

type LovedRepository interface {
	GetLoved(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	AddLoved(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error)
	RemoveLoved(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error)
	DeleteLoved(ctx context.Context, userID primitive.ObjectID) error
}

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	FindOrderByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error)
	DeleteOrdersByUser(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkOrderPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error)
	MarkOrderDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error)
}

// PaymentGateway creates and retrieves card payment intents.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (*payments.Intent, error)
	GetIntent(ctx context.Context, id string) (*payments.Intent, error)
}

// Notifier sends the storefront's transactional emails.
type Notifier interface {
	SendPasswordResetCode(ctx context.Context, toEmail, code string) error
	SendOrderConfirmationEmail(ctx context.Context, toEmail string, order models.Order) error
	SendOrderStatusEmail(ctx context.Context, toEmail string, order models.Order, status string) error
}

// TokenIssuer signs session tokens.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}
