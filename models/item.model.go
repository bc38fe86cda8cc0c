package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item represents a sellable item in a seller's catalog.
//
// Unlimited marks items whose stock is not tracked; Quantity is ignored for
// them during checkout and restore. An item can never be available while its
// tracked quantity is zero.
type Item struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	SellerID    primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	CategoryID  primitive.ObjectID `bson:"category_id" json:"category_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Price       float64            `bson:"price" json:"price"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Unlimited   bool               `bson:"unlimited" json:"unlimited"`
	IsAvailable bool               `bson:"is_available" json:"is_available"`
	ImageURL    string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	CreatedAt   time.Time          `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt   time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// InStock reports whether at least n units can be purchased right now.
func (it *Item) InStock(n int) bool {
	return it.Unlimited || it.Quantity >= n
}

// ItemQuery filters catalog listings.
type ItemQuery struct {
	SellerID    primitive.ObjectID
	CategoryID  primitive.ObjectID
	IsAvailable *bool
}
