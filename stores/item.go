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
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ItemStore persists seller items.
type ItemStore struct {
	Collection *mongo.Collection
}

// NewItemStore creates a new ItemStore
func NewItemStore(client *mongo.Client) *ItemStore {
	return &ItemStore{Collection: client.Database(DatabaseName).Collection("items")}
}

// GetByID returns the item with the given id.
func (s *ItemStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	var item models.Item
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "item with id %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "fetching item %s", id.Hex())
	}
	return &item, nil
}

// List returns the items matching the query filters.
func (s *ItemStore) List(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	filter := bson.M{}
	if !q.SellerID.IsZero() {
		filter["seller_id"] = q.SellerID
	}
	if !q.CategoryID.IsZero() {
		filter["category_id"] = q.CategoryID
	}
	if q.IsAvailable != nil {
		filter["is_available"] = *q.IsAvailable
	}

	cursor, err := s.Collection.Find(ctx, filter)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "listing items")
	}
	defer cursor.Close(ctx)

	var items []models.Item
	if err := cursor.All(ctx, &items); err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "decoding items")
	}
	return items, nil
}

// Create inserts a new item.
func (s *ItemStore) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt

	result, err := s.Collection.InsertOne(ctx, item)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "creating item %q", item.Name)
	}
	item.ID = result.InsertedID.(primitive.ObjectID)
	return item, nil
}

// Update replaces the item's mutable fields.
func (s *ItemStore) Update(ctx context.Context, item *models.Item) (*models.Item, error) {
	item.UpdatedAt = time.Now()

	update := bson.M{"$set": bson.M{
		"seller_id":    item.SellerID,
		"category_id":  item.CategoryID,
		"name":         item.Name,
		"description":  item.Description,
		"price":        item.Price,
		"quantity":     item.Quantity,
		"unlimited":    item.Unlimited,
		"is_available": item.IsAvailable,
		"image_url":    item.ImageURL,
		"updated_at":   item.UpdatedAt,
	}}
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": item.ID}, update)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "updating item %s", item.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return nil, apperr.New(apperr.KindNotFound, "item with id %s not found", item.ID.Hex())
	}
	return item, nil
}

// Delete removes the item with the given id.
func (s *ItemStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "deleting item %s", id.Hex())
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "item with id %s not found", id.Hex())
	}
	return nil
}

// AdjustQuantity applies delta to the item's tracked quantity in a single
// conditional update. A purchase (negative delta) matches only while enough
// stock remains, so two concurrent checkouts cannot both take the last unit;
// the loser gets InsufficientStock. Unlimited items are left untouched.
func (s *ItemStore) AdjustQuantity(ctx context.Context, id primitive.ObjectID, delta int) (*models.Item, error) {
	if delta == 0 {
		return s.GetByID(ctx, id)
	}

	filter := bson.M{"_id": id, "unlimited": false}
	if delta < 0 {
		filter["quantity"] = bson.M{"$gte": -delta}
	}
	update := bson.M{
		"$inc": bson.M{"quantity": delta},
		"$set": bson.M{"updated_at": time.Now()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var item models.Item
	err := s.Collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// No match: deleted, unlimited, or not enough stock left.
		current, gerr := s.GetByID(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		if current.Unlimited {
			return current, nil
		}
		return nil, apperr.New(apperr.KindInsufficientStock,
			"item %q has only %d left in stock", current.Name, current.Quantity)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "adjusting quantity of item %s", id.Hex())
	}

	// The availability flag cannot stay raised once stock hits zero.
	if item.Quantity == 0 && item.IsAvailable {
		_, err := s.Collection.UpdateOne(ctx, bson.M{"_id": id, "quantity": 0},
			bson.M{"$set": bson.M{"is_available": false}})
		if err != nil {
			return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "marking item %s unavailable", id.Hex())
		}
		item.IsAvailable = false
	}
	return &item, nil
}
