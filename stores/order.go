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

// OrderStore persists orders.
type OrderStore struct {
	Collection *mongo.Collection
}

// NewOrderStore creates a new OrderStore
func NewOrderStore(client *mongo.Client) *OrderStore {
	return &OrderStore{Collection: client.Database(DatabaseName).Collection("orders")}
}

// Insert persists a newly placed order.
func (s *OrderStore) Insert(ctx context.Context, order *models.Order) (*models.Order, error) {
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	result, err := s.Collection.InsertOne(ctx, order)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "placing order for customer %s", order.CustomerID.Hex())
	}
	order.ID = result.InsertedID.(primitive.ObjectID)
	return order, nil
}

// GetByID returns the order with the given id.
func (s *OrderStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "order with id %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "fetching order %s", id.Hex())
	}
	return &order, nil
}

// List returns the orders matching the owner and optional status filters,
// newest first.
func (s *OrderStore) List(ctx context.Context, q models.OrderQuery) ([]models.Order, error) {
	filter := bson.M{}
	if !q.CustomerID.IsZero() {
		filter["customer_id"] = q.CustomerID
	}
	if !q.SellerID.IsZero() {
		filter["seller_id"] = q.SellerID
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}

	opts := options.Find().SetSort(bson.M{"created_at": -1})
	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "listing orders")
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "decoding orders")
	}
	return orders, nil
}

// UpdateStatus sets the order's status and returns the updated document.
// The items snapshot is never touched.
func (s *OrderStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := s.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "order with id %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "updating order %s", id.Hex())
	}
	return &order, nil
}
