package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies what a user is allowed to do.
type Role string

const (
	RoleCustomer Role = "Customer"
	RoleSeller   Role = "Seller"
	RoleAdmin    Role = "Admin"
)

// CustomerProfile holds the delivery details a customer fills in before
// they can place an order.
type CustomerProfile struct {
	FirstName   string `bson:"first_name" json:"first_name"`
	LastName    string `bson:"last_name" json:"last_name"`
	PhoneNumber string `bson:"phone_number" json:"phone_number"`
	Address     string `bson:"address" json:"address"`
}

// SellerProfile holds the seller's storefront name and the item categories
// an admin has assigned to them.
type SellerProfile struct {
	Name           string               `bson:"name" json:"name"`
	ItemCategories []primitive.ObjectID `bson:"item_categories" json:"item_categories"`
}

// User represents a user in the system. At most one of Customer or Seller
// is set, discriminated by Role; admins carry neither.
type User struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email             string             `bson:"email" json:"email"`
	Password          string             `bson:"password,omitempty" json:"-"`
	Role              Role               `bson:"role" json:"role"`
	Verified          bool               `bson:"verified" json:"verified"`
	VerificationToken string             `bson:"verification_token,omitempty" json:"-"`
	Customer          *CustomerProfile   `bson:"customer,omitempty" json:"customer,omitempty"`
	Seller            *SellerProfile     `bson:"seller,omitempty" json:"seller,omitempty"`
}

// CheckoutInfo is the frozen copy of the customer's contact details stored
// on every order.
type CheckoutInfo struct {
	Email       string `bson:"email" json:"email"`
	FirstName   string `bson:"first_name" json:"first_name"`
	LastName    string `bson:"last_name" json:"last_name"`
	PhoneNumber string `bson:"phone_number" json:"phone_number"`
	Address     string `bson:"address" json:"address"`
}
