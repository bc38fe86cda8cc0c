// Package services holds the marketplace business rules: cart
// reconciliation and the order placement/fulfillment workflow. Services
// consume the persistence layer through small interfaces so the rules can
// be exercised against fakes.
package services

import (
	"context"

	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemStore is the slice of the item catalog the services rely on.
// AdjustQuantity must be atomic and conditional: a purchase may only
// succeed while enough stock remains.
type ItemStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error)
	List(ctx context.Context, q models.ItemQuery) ([]models.Item, error)
	Create(ctx context.Context, item *models.Item) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) (*models.Item, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (*models.Item, error)
}

// CartStore persists one cart per customer.
type CartStore interface {
	Get(ctx context.Context, ownerID primitive.ObjectID) (*models.Cart, error)
	Create(ctx context.Context, ownerID primitive.ObjectID) (*models.Cart, error)
	Save(ctx context.Context, cart *models.Cart) (*models.Cart, error)
	Clear(ctx context.Context, ownerID primitive.ObjectID) error
}

// OrderStore persists orders.
type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) (*models.Order, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	List(ctx context.Context, q models.OrderQuery) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error)
}

// UserStore resolves customers for checkout-info extraction.
type UserStore interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Mailer sends order notifications. Implementations must be safe for
// concurrent use; a nil Mailer disables notifications.
type Mailer interface {
	SendOrderPlacedEmail(to string, order *models.Order) error
	SendOrderStatusEmail(to string, order *models.Order) error
}
