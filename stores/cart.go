package stores

import (
	"context"
	"errors"
	"time"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CartStore persists shopping carts, one per customer.
type CartStore struct {
	Collection *mongo.Collection
}

// NewCartStore creates a new CartStore
func NewCartStore(client *mongo.Client) *CartStore {
	return &CartStore{Collection: client.Database(DatabaseName).Collection("carts")}
}

// Get returns the cart owned by ownerID, or NotFound if none exists yet.
func (s *CartStore) Get(ctx context.Context, ownerID primitive.ObjectID) (*models.Cart, error) {
	var cart models.Cart
	err := s.Collection.FindOne(ctx, bson.M{"owner_id": ownerID}).Decode(&cart)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "cart for customer %s not found", ownerID.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "fetching cart for customer %s", ownerID.Hex())
	}
	return &cart, nil
}

// Create inserts an empty cart for ownerID.
func (s *CartStore) Create(ctx context.Context, ownerID primitive.ObjectID) (*models.Cart, error) {
	cart := models.Cart{
		OwnerID:   ownerID,
		Lines:     []models.CartLine{},
		Total:     0,
		UpdatedAt: time.Now(),
	}
	result, err := s.Collection.InsertOne(ctx, cart)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "creating cart for customer %s", ownerID.Hex())
	}
	cart.ID = result.InsertedID.(primitive.ObjectID)
	return &cart, nil
}

// Save upserts the cart document keyed by its owner.
func (s *CartStore) Save(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	cart.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"items":      cart.Lines,
		"total":      cart.Total,
		"updated_at": cart.UpdatedAt,
	}}
	_, err := s.Collection.UpdateOne(ctx, bson.M{"owner_id": cart.OwnerID}, update)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "saving cart for customer %s", cart.OwnerID.Hex())
	}
	return cart, nil
}

// Clear empties the cart's lines and zeroes its total. The cart document
// itself stays; carts are never deleted.
func (s *CartStore) Clear(ctx context.Context, ownerID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{
		"items":      []models.CartLine{},
		"total":      0.0,
		"updated_at": time.Now(),
	}}
	_, err := s.Collection.UpdateOne(ctx, bson.M{"owner_id": ownerID}, update)
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "clearing cart for customer %s", ownerID.Hex())
	}
	return nil
}
