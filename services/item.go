package services

import (
	"context"
	"log"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemService runs the seller catalog rules: ownership, category
// assignment, and the availability invariant — an item can never be
// available while its tracked stock is zero.
type ItemService struct {
	items ItemStore
	users UserStore
}

// NewItemService creates a new ItemService
func NewItemService(items ItemStore, users UserStore) *ItemService {
	return &ItemService{items: items, users: users}
}

// ListItems returns the catalog entries matching the query.
func (s *ItemService) ListItems(ctx context.Context, q models.ItemQuery) ([]models.Item, error) {
	return s.items.List(ctx, q)
}

// GetItem returns a single catalog entry.
func (s *ItemService) GetItem(ctx context.Context, id primitive.ObjectID) (*models.Item, error) {
	return s.items.GetByID(ctx, id)
}

// CreateItem adds an item to the caller's catalog. Sellers may only create
// items under themselves and within their assigned categories.
func (s *ItemService) CreateItem(ctx context.Context, item *models.Item, callerID primitive.ObjectID, callerRole models.Role) (*models.Item, error) {
	log.Printf("creating item %q for seller %s", item.Name, item.SellerID.Hex())

	if callerRole == models.RoleSeller && item.SellerID != callerID {
		return nil, apperr.New(apperr.KindForbidden, "cannot create an item for another seller")
	}
	if err := s.checkCategory(ctx, item.SellerID, item.CategoryID); err != nil {
		return nil, err
	}
	if err := validateItemAvailability(item); err != nil {
		return nil, err
	}
	return s.items.Create(ctx, item)
}

// UpdateItem replaces an item's fields under the same rules as CreateItem.
func (s *ItemService) UpdateItem(ctx context.Context, item *models.Item, callerID primitive.ObjectID, callerRole models.Role) (*models.Item, error) {
	log.Printf("updating item %s", item.ID.Hex())

	current, err := s.items.GetByID(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if callerRole == models.RoleSeller && current.SellerID != callerID {
		return nil, apperr.New(apperr.KindForbidden, "cannot update an item of another seller")
	}
	if callerRole == models.RoleSeller && item.SellerID != callerID {
		return nil, apperr.New(apperr.KindForbidden, "cannot assign an item to another seller")
	}
	if item.CategoryID != current.CategoryID {
		if err := s.checkCategory(ctx, item.SellerID, item.CategoryID); err != nil {
			return nil, err
		}
	}
	if err := validateItemAvailability(item); err != nil {
		return nil, err
	}
	return s.items.Update(ctx, item)
}

// DeleteItem removes an item from the caller's catalog.
func (s *ItemService) DeleteItem(ctx context.Context, id, callerID primitive.ObjectID, callerRole models.Role) error {
	log.Printf("deleting item %s", id.Hex())

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if callerRole == models.RoleSeller && item.SellerID != callerID {
		return apperr.New(apperr.KindForbidden, "cannot delete an item of another seller")
	}
	return s.items.Delete(ctx, id)
}

func (s *ItemService) checkCategory(ctx context.Context, sellerID, categoryID primitive.ObjectID) error {
	seller, err := s.users.GetByID(ctx, sellerID)
	if err != nil {
		return err
	}
	if seller.Role != models.RoleSeller || seller.Seller == nil {
		return apperr.New(apperr.KindInvalidInput, "assigned seller is not a seller")
	}
	if len(seller.Seller.ItemCategories) == 0 {
		return apperr.New(apperr.KindForbidden, "seller is not assigned any item categories yet")
	}
	for _, id := range seller.Seller.ItemCategories {
		if id == categoryID {
			return nil
		}
	}
	return apperr.New(apperr.KindForbidden,
		"item category with id %s is not assigned to the seller", categoryID.Hex())
}

// validateItemAvailability rejects the available-with-zero-stock state at
// write time instead of waiting for cart reconciliation to notice it.
func validateItemAvailability(item *models.Item) error {
	if item.IsAvailable && !item.Unlimited && item.Quantity == 0 {
		return apperr.New(apperr.KindInvalidInput,
			"item cannot be available with quantity equal to 0")
	}
	if item.Quantity < 0 {
		return apperr.New(apperr.KindInvalidInput, "item quantity cannot be negative")
	}
	if item.Price < 0 {
		return apperr.New(apperr.KindInvalidInput, "item price cannot be negative")
	}
	return nil
}
