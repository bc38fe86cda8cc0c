package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine represents one item-and-quantity entry in a cart. Price, Name,
// ImageURL, IsAvailable and Availability are display snapshots refreshed
// from the live item on every reconciliation; they are not sources of truth.
type CartLine struct {
	ItemID       primitive.ObjectID `bson:"item_id" json:"item_id"`
	SellerID     primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	Name         string             `bson:"name" json:"name"`
	Price        float64            `bson:"price" json:"price"`
	Quantity     int                `bson:"quantity" json:"quantity"`
	ImageURL     string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	IsAvailable  bool               `bson:"is_available" json:"is_available"`
	Availability int                `bson:"availability" json:"availability"`
}

// Cart represents a customer's shopping cart. There is exactly one per
// customer, created lazily and never deleted; clearing empties the lines.
// All lines share one seller.
type Cart struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OwnerID   primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	Lines     []CartLine         `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// MaxLineQuantity caps how many units of one item a single cart may hold.
const MaxLineQuantity = 5

// RecomputeTotal sets Total to the sum of price times quantity over all lines.
func (c *Cart) RecomputeTotal() {
	total := 0.0
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	c.Total = total
}

// LineIndex returns the index of the line holding itemID, or -1.
func (c *Cart) LineIndex(itemID primitive.ObjectID) int {
	for i, line := range c.Lines {
		if line.ItemID == itemID {
			return i
		}
	}
	return -1
}
