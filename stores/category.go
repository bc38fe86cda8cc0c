package stores

import (
	"context"
	"errors"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// CategoryStore persists item categories.
type CategoryStore struct {
	Collection *mongo.Collection
}

// NewCategoryStore creates a new CategoryStore
func NewCategoryStore(client *mongo.Client) *CategoryStore {
	return &CategoryStore{Collection: client.Database(DatabaseName).Collection("categories")}
}

// List returns all categories.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "listing categories")
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "decoding categories")
	}
	return categories, nil
}

// GetByID returns the category with the given id.
func (s *CategoryStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "category with id %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "fetching category %s", id.Hex())
	}
	return &category, nil
}

// Create inserts a new category.
func (s *CategoryStore) Create(ctx context.Context, category *models.Category) (*models.Category, error) {
	result, err := s.Collection.InsertOne(ctx, category)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "creating category %q", category.Name)
	}
	category.ID = result.InsertedID.(primitive.ObjectID)
	return category, nil
}

// Update replaces the category's fields.
func (s *CategoryStore) Update(ctx context.Context, category *models.Category) (*models.Category, error) {
	update := bson.M{"$set": bson.M{
		"name":        category.Name,
		"description": category.Description,
		"type":        category.Type,
	}}
	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": category.ID}, update)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "updating category %s", category.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return nil, apperr.New(apperr.KindNotFound, "category with id %s not found", category.ID.Hex())
	}
	return category, nil
}

// Delete removes the category with the given id.
func (s *CategoryStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := s.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "deleting category %s", id.Hex())
	}
	if result.DeletedCount == 0 {
		return apperr.New(apperr.KindNotFound, "category with id %s not found", id.Hex())
	}
	return nil
}
