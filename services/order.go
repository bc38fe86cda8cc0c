package services

import (
	"context"
	"log"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderService converts a validated cart into an immutable order and runs
// its lifecycle, keeping seller inventory consistent with order state.
//
// Caller identity is an explicit parameter on every operation; the service
// never reads it from ambient state.
type OrderService struct {
	orders OrderStore
	items  ItemStore
	carts  CartStore
	users  UserStore
	cart   *CartService
	mailer Mailer
}

// NewOrderService creates a new OrderService. mailer may be nil to disable
// notifications.
func NewOrderService(orders OrderStore, items ItemStore, carts CartStore, users UserStore, cart *CartService, mailer Mailer) *OrderService {
	return &OrderService{
		orders: orders,
		items:  items,
		carts:  carts,
		users:  users,
		cart:   cart,
		mailer: mailer,
	}
}

// PlaceOrder turns the customer's cart into a Pending order.
//
// The cart is reconciled in strict mode first, so any stock or availability
// problem fails the checkout before anything is written. Inventory is then
// reserved line by line with conditional decrements; losing a concurrent
// race for the last units fails the checkout and releases whatever was
// already reserved, so stock can never go negative and an order is never
// persisted without its inventory.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID primitive.ObjectID) (*models.Order, error) {
	log.Printf("placing a new order for customer %s", customerID.Hex())

	cart, err := s.carts.Get(ctx, customerID)
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, apperr.New(apperr.KindEmptyCart, "cannot place an order with an empty cart")
		}
		return nil, err
	}

	cart, err = s.cart.Reconcile(ctx, cart, true)
	if err != nil {
		return nil, err
	}

	if len(cart.Lines) == 0 {
		return nil, apperr.New(apperr.KindEmptyCart, "cannot place an order with an empty cart")
	}
	sellerID := cart.Lines[0].SellerID
	for _, line := range cart.Lines {
		if line.SellerID != sellerID {
			return nil, apperr.New(apperr.KindMultiSellerCart,
				"cannot place an order with items from multiple sellers")
		}
	}

	customer, err := s.users.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	info, err := checkoutInfo(customer)
	if err != nil {
		return nil, err
	}

	// Reserve inventory before the order exists. A failed reservation
	// releases the lines taken so far and aborts the checkout.
	for i, line := range cart.Lines {
		if _, err := s.items.AdjustQuantity(ctx, line.ItemID, -line.Quantity); err != nil {
			s.releaseLines(ctx, cart.Lines[:i])
			return nil, err
		}
	}

	items := make([]models.CartLine, len(cart.Lines))
	copy(items, cart.Lines)

	order, err := s.orders.Insert(ctx, &models.Order{
		CustomerID:   customerID,
		SellerID:     sellerID,
		Items:        items,
		CheckoutInfo: info,
		TotalAmount:  cart.Total + models.ShippingRateTripoli,
		Status:       models.OrderPending,
	})
	if err != nil {
		s.releaseLines(ctx, cart.Lines)
		return nil, err
	}

	if err := s.carts.Clear(ctx, customerID); err != nil {
		// The order stands; an uncleared cart is recoverable on next view.
		log.Printf("clearing cart for customer %s after checkout: %v", customerID.Hex(), err)
	}

	s.notify(order, s.mailerPlaced)
	return order, nil
}

// CancelOrder cancels the order and restores its lines onto the seller's
// inventory. Customers may cancel their own Pending orders; sellers may
// cancel their own Pending or Processing orders.
func (s *OrderService) CancelOrder(ctx context.Context, id, callerID primitive.ObjectID, callerRole models.Role) (*models.Order, error) {
	log.Printf("cancelling order %s", id.Hex())

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	switch callerRole {
	case models.RoleCustomer:
		if order.CustomerID != callerID {
			return nil, apperr.New(apperr.KindForbidden, "cannot cancel an order that is not yours")
		}
		if order.Status != models.OrderPending {
			return nil, apperr.New(apperr.KindInvalidTransition,
				"cannot cancel an order that is %s", order.Status)
		}
	case models.RoleSeller:
		if order.SellerID != callerID {
			return nil, apperr.New(apperr.KindForbidden,
				"cannot cancel an order that you are not responsible for")
		}
		if order.Status != models.OrderPending && order.Status != models.OrderProcessing {
			return nil, apperr.New(apperr.KindInvalidTransition,
				"cannot cancel an order that is %s", order.Status)
		}
	default:
		return nil, apperr.New(apperr.KindForbidden, "only customers and sellers can cancel orders")
	}

	cancelled, err := s.orders.UpdateStatus(ctx, id, models.OrderCancelled)
	if err != nil {
		return nil, err
	}

	s.releaseLines(ctx, cancelled.Items)

	s.notify(cancelled, s.mailerStatus)
	return cancelled, nil
}

// UpdateOrder moves the order to a new status. Only the owning seller may
// update an order; equal status is a no-op, terminal states reject any
// move, and a move to Cancelled goes through CancelOrder so inventory is
// restored.
func (s *OrderService) UpdateOrder(ctx context.Context, id primitive.ObjectID, status models.OrderStatus, callerID primitive.ObjectID, callerRole models.Role) (*models.Order, error) {
	log.Printf("updating order %s to %s", id.Hex(), status)

	if !status.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid order status %q", status)
	}

	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if callerRole != models.RoleSeller || order.SellerID != callerID {
		return nil, apperr.New(apperr.KindForbidden,
			"cannot update an order that you are not responsible for")
	}

	if order.Status == status {
		return order, nil
	}
	if order.Status.Terminal() {
		return nil, apperr.New(apperr.KindInvalidTransition,
			"cannot update a %s order", order.Status)
	}
	if status == models.OrderCancelled {
		return s.CancelOrder(ctx, id, callerID, callerRole)
	}
	if !order.Status.CanTransitionTo(status) {
		return nil, apperr.New(apperr.KindInvalidTransition,
			"cannot move a %s order to %s", order.Status, status)
	}

	updated, err := s.orders.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	s.notify(updated, s.mailerStatus)
	return updated, nil
}

// GetOrder returns the order when the caller is its customer or seller.
func (s *OrderService) GetOrder(ctx context.Context, id, callerID primitive.ObjectID, callerRole models.Role) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isOwner(order, callerID, callerRole) {
		return nil, apperr.New(apperr.KindNotFound, "order with id %s not found", id.Hex())
	}
	return order, nil
}

// ListOrders returns the caller's orders, optionally filtered by status.
func (s *OrderService) ListOrders(ctx context.Context, callerID primitive.ObjectID, callerRole models.Role, status models.OrderStatus) ([]models.Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.New(apperr.KindInvalidInput, "invalid order status %q", status)
	}

	q := models.OrderQuery{Status: status}
	switch callerRole {
	case models.RoleCustomer:
		q.CustomerID = callerID
	case models.RoleSeller:
		q.SellerID = callerID
	default:
		return nil, apperr.New(apperr.KindForbidden, "only customers and sellers can list orders")
	}
	return s.orders.List(ctx, q)
}

// releaseLines puts the lines' quantities back onto inventory. Items
// deleted since purchase are skipped; other failures are logged and left
// for reconciliation rather than failing the caller.
func (s *OrderService) releaseLines(ctx context.Context, lines []models.CartLine) {
	for _, line := range lines {
		if _, err := s.items.AdjustQuantity(ctx, line.ItemID, line.Quantity); err != nil {
			if apperr.KindOf(err) == apperr.KindNotFound {
				continue
			}
			log.Printf("restoring %d units of item %s: %v", line.Quantity, line.ItemID.Hex(), err)
		}
	}
}

func isOwner(order *models.Order, callerID primitive.ObjectID, callerRole models.Role) bool {
	switch callerRole {
	case models.RoleCustomer:
		return order.CustomerID == callerID
	case models.RoleSeller:
		return order.SellerID == callerID
	}
	return false
}

func checkoutInfo(customer *models.User) (models.CheckoutInfo, error) {
	profile := customer.Customer
	if customer.Role != models.RoleCustomer || profile == nil {
		return models.CheckoutInfo{}, apperr.New(apperr.KindIncompleteCheckoutInfo,
			"cannot place an order without a customer profile")
	}
	if profile.FirstName == "" || profile.LastName == "" {
		return models.CheckoutInfo{}, apperr.New(apperr.KindIncompleteCheckoutInfo,
			"cannot place an order without first and last name")
	}
	if profile.PhoneNumber == "" {
		return models.CheckoutInfo{}, apperr.New(apperr.KindIncompleteCheckoutInfo,
			"cannot place an order without phone number")
	}
	if profile.Address == "" {
		return models.CheckoutInfo{}, apperr.New(apperr.KindIncompleteCheckoutInfo,
			"cannot place an order without address")
	}
	return models.CheckoutInfo{
		Email:       customer.Email,
		FirstName:   profile.FirstName,
		LastName:    profile.LastName,
		PhoneNumber: profile.PhoneNumber,
		Address:     profile.Address,
	}, nil
}

func (s *OrderService) mailerPlaced(to string, order *models.Order) error {
	return s.mailer.SendOrderPlacedEmail(to, order)
}

func (s *OrderService) mailerStatus(to string, order *models.Order) error {
	return s.mailer.SendOrderStatusEmail(to, order)
}

func (s *OrderService) notify(order *models.Order, send func(string, *models.Order) error) {
	if s.mailer == nil {
		return
	}
	to := order.CheckoutInfo.Email
	go func() {
		if err := send(to, order); err != nil {
			log.Printf("failed to send order email to %s: %v", to, err)
		}
	}()
}
