package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CategoryType distinguishes what kind of listings a category groups.
type CategoryType string

const (
	CategoryItem    CategoryType = "Item"
	CategoryProduct CategoryType = "Product"
	CategoryService CategoryType = "Service"
)

// Category represents an item category managed by admins.
type Category struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Type        CategoryType       `bson:"type" json:"type"`
}
