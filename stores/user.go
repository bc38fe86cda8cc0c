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

// UserStore persists users of all three roles.
type UserStore struct {
	Collection *mongo.Collection
}

// NewUserStore creates a new UserStore
func NewUserStore(client *mongo.Client) *UserStore {
	return &UserStore{Collection: client.Database(DatabaseName).Collection("users")}
}

// GetByID returns the user with the given id.
func (s *UserStore) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "user with id %s not found", id.Hex())
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "fetching user %s", id.Hex())
	}
	return &user, nil
}

// GetByEmail returns the user registered under email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.Collection.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.New(apperr.KindNotFound, "user with email %s not found", email)
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "fetching user by email")
	}
	return &user, nil
}

// EmailTaken reports whether a user is already registered under email.
func (s *UserStore) EmailTaken(ctx context.Context, email string) (bool, error) {
	count, err := s.Collection.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, apperr.Wrap(apperr.KindStoreUnavailable, err, "checking email")
	}
	return count > 0, nil
}

// Create inserts a new user.
func (s *UserStore) Create(ctx context.Context, user *models.User) (*models.User, error) {
	result, err := s.Collection.InsertOne(ctx, user)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindStoreUnavailable, err, "creating user")
	}
	user.ID = result.InsertedID.(primitive.ObjectID)
	return user, nil
}

// UpdateProfile replaces the role-specific profile of the user.
func (s *UserStore) UpdateProfile(ctx context.Context, user *models.User) error {
	set := bson.M{}
	switch user.Role {
	case models.RoleCustomer:
		set["customer"] = user.Customer
	case models.RoleSeller:
		set["seller"] = user.Seller
	default:
		return apperr.New(apperr.KindInvalidInput, "role %s has no profile", user.Role)
	}

	result, err := s.Collection.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set})
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "updating profile of user %s", user.ID.Hex())
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.KindNotFound, "user with id %s not found", user.ID.Hex())
	}
	return nil
}

// MarkVerified flips the verified flag for the given email.
func (s *UserStore) MarkVerified(ctx context.Context, email string) error {
	result, err := s.Collection.UpdateOne(ctx, bson.M{"email": email},
		bson.M{"$set": bson.M{"verified": true, "verification_token": ""}})
	if err != nil {
		return apperr.Wrap(apperr.KindStoreUnavailable, err, "verifying user")
	}
	if result.MatchedCount == 0 {
		return apperr.New(apperr.KindNotFound, "user with email %s not found", email)
	}
	return nil
}
