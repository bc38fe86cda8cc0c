package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderCompleted  OrderStatus = "Completed"
)

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderCancelled, OrderCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderCancelled || s == OrderCompleted
}

// CanTransitionTo reports whether the move from s to next is legal:
// Pending -> Processing -> Completed, with cancellation allowed from
// Pending and Processing.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderPending:
		return next == OrderProcessing || next == OrderCancelled
	case OrderProcessing:
		return next == OrderCompleted || next == OrderCancelled
	}
	return false
}

// ShippingRateTripoli is the flat shipping rate added to every order total.
const ShippingRateTripoli = 5.0

// Order represents a placed order. Items is the frozen snapshot of the cart
// lines at placement time and is never mutated afterwards; orders are never
// deleted, cancellation is a status.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	CustomerID   primitive.ObjectID `bson:"customer_id" json:"customer_id"`
	SellerID     primitive.ObjectID `bson:"seller_id" json:"seller_id"`
	Items        []CartLine         `bson:"items" json:"items"`
	CheckoutInfo CheckoutInfo       `bson:"customer_checkout_info" json:"customer_checkout_info"`
	TotalAmount  float64            `bson:"total_amount" json:"total_amount"`
	Status       OrderStatus        `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
}

// OrderQuery filters order listings by owner and, optionally, status.
// Exactly one of CustomerID or SellerID is set by the caller.
type OrderQuery struct {
	CustomerID primitive.ObjectID
	SellerID   primitive.ObjectID
	Status     OrderStatus
}
