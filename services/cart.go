package services

import (
	"context"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartService keeps a cart's cached line data truthful against the live
// item catalog and enforces the cart-level rules: quantities between 1 and
// 5, one seller per cart, totals always recomputed from the lines.
type CartService struct {
	carts CartStore
	items ItemStore
}

// NewCartService creates a new CartService
func NewCartService(carts CartStore, items ItemStore) *CartService {
	return &CartService{carts: carts, items: items}
}

// Get returns the customer's cart, creating an empty one on first use.
// The returned cart is reconciled in display mode, so stale lines are
// clamped rather than failing the view.
func (s *CartService) Get(ctx context.Context, ownerID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return s.carts.Create(ctx, ownerID)
		}
		return nil, err
	}
	return s.Reconcile(ctx, cart, false)
}

// Reconcile refreshes every line's snapshot from the live item, recomputes
// the total and persists the cart.
//
// In strict mode (the checkout path) any stock or availability problem
// fails the call. In display mode the line is clamped instead: quantity is
// downgraded to the available stock, and zeroed when the item is out of
// stock or unavailable. Lines whose item no longer exists are dropped.
func (s *CartService) Reconcile(ctx context.Context, cart *models.Cart, strict bool) (*models.Cart, error) {
	lines := make([]models.CartLine, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		item, err := s.items.GetByID(ctx, line.ItemID)
		if err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				if strict {
					// Persist the cart without the stale line so the
					// next view is clean, then fail the checkout.
					cart.Lines = append(lines, cart.Lines[len(lines)+1:]...)
					cart.RecomputeTotal()
					if _, serr := s.carts.Save(ctx, cart); serr != nil {
						return nil, serr
					}
					return nil, apperr.New(apperr.KindNotFound,
						"item %q does not exist anymore", line.Name)
				}
				continue
			}
			return nil, err
		}

		if strict {
			if !item.Unlimited && item.Quantity < 1 {
				return nil, apperr.New(apperr.KindOutOfStock, "item %q is out of stock", item.Name)
			}
			if !item.IsAvailable {
				return nil, apperr.New(apperr.KindUnavailable, "item %q is not available", item.Name)
			}
			if !item.Unlimited && line.Quantity > item.Quantity {
				return nil, apperr.New(apperr.KindInsufficientStock,
					"item %q has only %d left in stock", item.Name, item.Quantity)
			}
			if line.Quantity < 1 || line.Quantity > models.MaxLineQuantity {
				return nil, apperr.New(apperr.KindInvalidQuantity,
					"requested quantity of item %q is invalid", item.Name)
			}
		}

		if (!item.Unlimited && item.Quantity < 1) || !item.IsAvailable {
			line.Quantity = 0
		}
		if !item.Unlimited && line.Quantity > item.Quantity {
			line.Quantity = item.Quantity
		}

		line.SellerID = item.SellerID
		line.Name = item.Name
		line.Price = item.Price
		line.ImageURL = item.ImageURL
		line.IsAvailable = item.IsAvailable
		line.Availability = item.Quantity
		lines = append(lines, line)
	}

	cart.Lines = lines
	cart.RecomputeTotal()
	return s.carts.Save(ctx, cart)
}

// AddItem puts quantity units of the item into the customer's cart. If the
// item already has a line, the quantities are merged under the same checks
// rather than duplicated. Items from a second seller are rejected.
func (s *CartService) AddItem(ctx context.Context, ownerID, itemID primitive.ObjectID, quantity int) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	cart, err := s.getOrCreate(ctx, ownerID)
	if err != nil {
		return err
	}

	if i := cart.LineIndex(itemID); i >= 0 {
		return s.setLine(ctx, cart, item, i, cart.Lines[i].Quantity+quantity)
	}

	if err := validateAvailability(item, quantity); err != nil {
		return err
	}
	if len(cart.Lines) > 0 && cart.Lines[0].SellerID != item.SellerID {
		return apperr.New(apperr.KindCrossSellerCart,
			"cannot add items from different sellers to the same cart")
	}

	cart.Lines = append(cart.Lines, newLine(item, quantity))
	cart.RecomputeTotal()
	_, err = s.carts.Save(ctx, cart)
	return err
}

// UpdateItem replaces the quantity of an existing line under the same
// checks as AddItem. A missing line is a no-op.
func (s *CartService) UpdateItem(ctx context.Context, ownerID, itemID primitive.ObjectID, quantity int) error {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	cart, err := s.getOrCreate(ctx, ownerID)
	if err != nil {
		return err
	}

	i := cart.LineIndex(itemID)
	if i < 0 {
		return nil
	}
	return s.setLine(ctx, cart, item, i, quantity)
}

// RemoveItem drops the item's line from the cart. Removing a line that is
// not there is a no-op, not an error.
func (s *CartService) RemoveItem(ctx context.Context, ownerID, itemID primitive.ObjectID) error {
	cart, err := s.getOrCreate(ctx, ownerID)
	if err != nil {
		return err
	}

	i := cart.LineIndex(itemID)
	if i < 0 {
		return nil
	}

	cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
	cart.RecomputeTotal()
	_, err = s.carts.Save(ctx, cart)
	return err
}

// Clear empties the customer's cart.
func (s *CartService) Clear(ctx context.Context, ownerID primitive.ObjectID) error {
	return s.carts.Clear(ctx, ownerID)
}

func (s *CartService) getOrCreate(ctx context.Context, ownerID primitive.ObjectID) (*models.Cart, error) {
	cart, err := s.carts.Get(ctx, ownerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return s.carts.Create(ctx, ownerID)
		}
		return nil, err
	}
	return cart, nil
}

func (s *CartService) setLine(ctx context.Context, cart *models.Cart, item *models.Item, i, quantity int) error {
	if err := validateAvailability(item, quantity); err != nil {
		return err
	}
	cart.Lines[i] = newLine(item, quantity)
	cart.RecomputeTotal()
	_, err := s.carts.Save(ctx, cart)
	return err
}

func newLine(item *models.Item, quantity int) models.CartLine {
	return models.CartLine{
		ItemID:       item.ID,
		SellerID:     item.SellerID,
		Name:         item.Name,
		Price:        item.Price,
		Quantity:     quantity,
		ImageURL:     item.ImageURL,
		IsAvailable:  item.IsAvailable,
		Availability: item.Quantity,
	}
}

func validateAvailability(item *models.Item, requested int) error {
	if !item.Unlimited && item.Quantity < 1 {
		return apperr.New(apperr.KindOutOfStock, "item %q is out of stock at the moment", item.Name)
	}
	if !item.IsAvailable {
		return apperr.New(apperr.KindUnavailable, "item %q is not available for purchase", item.Name)
	}
	if requested > models.MaxLineQuantity {
		return apperr.New(apperr.KindQuantityLimitExceeded,
			"cannot hold more than %d units of the same item", models.MaxLineQuantity)
	}
	if requested < 1 {
		return apperr.New(apperr.KindInvalidQuantity, "requested quantity of item %q is invalid", item.Name)
	}
	if !item.Unlimited && requested > item.Quantity {
		return apperr.New(apperr.KindInsufficientStock,
			"item %q has only %d left in stock", item.Name, item.Quantity)
	}
	return nil
}
