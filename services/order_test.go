package services

import (
	"context"
	"sync"
	"testing"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type orderFixture struct {
	svc    *OrderService
	cart   *CartService
	orders *memOrders
	items  *memItems
	carts  *memCarts
	users  *memUsers
}

func newOrderFixture(users []*models.User, items ...*models.Item) *orderFixture {
	f := &orderFixture{
		orders: newMemOrders(),
		items:  newMemItems(items...),
		carts:  newMemCarts(),
		users:  newMemUsers(users...),
	}
	f.cart = NewCartService(f.carts, f.items)
	f.svc = NewOrderService(f.orders, f.items, f.carts, f.users, f.cart, nil)
	return f
}

func TestPlaceOrder(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 3))

	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, customer.ID, order.CustomerID)
	assert.Equal(t, item.SellerID, order.SellerID)
	assert.Equal(t, 30.0+models.ShippingRateTripoli, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, customer.Email, order.CheckoutInfo.Email)
	assert.Equal(t, "Amira", order.CheckoutInfo.FirstName)

	// Inventory was decremented and the cart cleared.
	assert.Equal(t, 2, f.items.stock(item.ID))
	cart, err := f.carts.Get(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Lines)
	assert.Zero(t, cart.Total)
}

func TestPlaceOrderFreezesItemSnapshot(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 2))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	// Catalog changes after placement must not leak into the order.
	item.Price = 99
	_, err = f.items.Update(context.Background(), item)
	require.NoError(t, err)

	stored, err := f.orders.GetByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, stored.Items[0].Price)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	customer := testCustomer()
	f := newOrderFixture([]*models.User{customer})

	// No cart at all.
	_, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(err))

	// An existing but empty cart behaves the same.
	_, err = f.carts.Create(context.Background(), customer.ID)
	require.NoError(t, err)
	_, err = f.svc.PlaceOrder(context.Background(), customer.ID)
	assert.Equal(t, apperr.KindEmptyCart, apperr.KindOf(err))
}

func TestPlaceOrderMultiSellerCart(t *testing.T) {
	customer := testCustomer()
	first := testItem(primitive.NewObjectID(), 10, 5)
	second := testItem(primitive.NewObjectID(), 20, 5)
	f := newOrderFixture([]*models.User{customer}, first, second)

	// Seed a cart that bypassed the add-time seller check.
	f.carts.seed(&models.Cart{
		OwnerID: customer.ID,
		Lines: []models.CartLine{
			{ItemID: first.ID, SellerID: first.SellerID, Price: 10, Quantity: 1, IsAvailable: true},
			{ItemID: second.ID, SellerID: second.SellerID, Price: 20, Quantity: 1, IsAvailable: true},
		},
	})

	_, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	assert.Equal(t, apperr.KindMultiSellerCart, apperr.KindOf(err))
	assert.Equal(t, 5, f.items.stock(first.ID))
	assert.Equal(t, 5, f.items.stock(second.ID))
}

func TestPlaceOrderIncompleteCheckoutInfo(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CustomerProfile)
	}{
		{"missing first name", func(p *models.CustomerProfile) { p.FirstName = "" }},
		{"missing last name", func(p *models.CustomerProfile) { p.LastName = "" }},
		{"missing phone number", func(p *models.CustomerProfile) { p.PhoneNumber = "" }},
		{"missing address", func(p *models.CustomerProfile) { p.Address = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customer := testCustomer()
			tt.mutate(customer.Customer)
			item := testItem(primitive.NewObjectID(), 10, 5)
			f := newOrderFixture([]*models.User{customer}, item)

			require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))

			_, err := f.svc.PlaceOrder(context.Background(), customer.ID)
			assert.Equal(t, apperr.KindIncompleteCheckoutInfo, apperr.KindOf(err))

			// Nothing was reserved or cleared.
			assert.Equal(t, 5, f.items.stock(item.ID))
			cart, err := f.carts.Get(context.Background(), customer.ID)
			require.NoError(t, err)
			assert.Len(t, cart.Lines, 1)
		})
	}
}

func TestPlaceOrderStrictReconcileBlocksStaleCart(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 3)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 3))

	// Stock shrank after the item went into the cart.
	item.Quantity = 1
	_, err := f.items.Update(context.Background(), item)
	require.NoError(t, err)

	_, err = f.svc.PlaceOrder(context.Background(), customer.ID)
	assert.Equal(t, apperr.KindInsufficientStock, apperr.KindOf(err))
	assert.Equal(t, 1, f.items.stock(item.ID))
}

func TestCancelOrderPermissions(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	sellerID := item.SellerID
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 2))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, f.items.stock(item.ID))

	// Seller moves the order along.
	_, err = f.svc.UpdateOrder(context.Background(), order.ID, models.OrderProcessing, sellerID, models.RoleSeller)
	require.NoError(t, err)

	// A customer can only cancel while Pending.
	_, err = f.svc.CancelOrder(context.Background(), order.ID, customer.ID, models.RoleCustomer)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))

	// The seller can still cancel a Processing order, restoring stock.
	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID, sellerID, models.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 5, f.items.stock(item.ID))
}

func TestCancelOrderByForeignCaller(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	_, err = f.svc.CancelOrder(context.Background(), order.ID, primitive.NewObjectID(), models.RoleCustomer)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.CancelOrder(context.Background(), order.ID, primitive.NewObjectID(), models.RoleSeller)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestCancelOrderSkipsDeletedItems(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 2))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	require.NoError(t, f.items.Delete(context.Background(), item.ID))

	cancelled, err := f.svc.CancelOrder(context.Background(), order.ID, customer.ID, models.RoleCustomer)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
}

func TestUpdateOrderNoOpOnSameStatus(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	same, err := f.svc.UpdateOrder(context.Background(), order.ID, models.OrderPending, item.SellerID, models.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, same.Status)
}

func TestUpdateOrderForbiddenForCustomers(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateOrder(context.Background(), order.ID, models.OrderProcessing, customer.ID, models.RoleCustomer)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	_, err = f.svc.UpdateOrder(context.Background(), order.ID, models.OrderProcessing, primitive.NewObjectID(), models.RoleSeller)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))
}

func TestUpdateOrderTerminalStatesRejectAnyMove(t *testing.T) {
	for _, terminal := range []models.OrderStatus{models.OrderCancelled, models.OrderCompleted} {
		for _, target := range []models.OrderStatus{
			models.OrderPending, models.OrderProcessing, models.OrderCancelled, models.OrderCompleted,
		} {
			if target == terminal {
				continue
			}
			t.Run(string(terminal)+" to "+string(target), func(t *testing.T) {
				customer := testCustomer()
				item := testItem(primitive.NewObjectID(), 10, 5)
				f := newOrderFixture([]*models.User{customer}, item)

				require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))
				order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
				require.NoError(t, err)

				_, err = f.orders.UpdateStatus(context.Background(), order.ID, terminal)
				require.NoError(t, err)

				_, err = f.svc.UpdateOrder(context.Background(), order.ID, target, item.SellerID, models.RoleSeller)
				assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
			})
		}
	}
}

func TestUpdateOrderRejectsSkippingProcessing(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateOrder(context.Background(), order.ID, models.OrderCompleted, item.SellerID, models.RoleSeller)
	assert.Equal(t, apperr.KindInvalidTransition, apperr.KindOf(err))
}

func TestUpdateOrderToCancelledRestoresStock(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 3))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, f.items.stock(item.ID))

	cancelled, err := f.svc.UpdateOrder(context.Background(), order.ID, models.OrderCancelled, item.SellerID, models.RoleSeller)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)
	assert.Equal(t, 5, f.items.stock(item.ID))
}

func TestGetOrderScopedToOwners(t *testing.T) {
	customer := testCustomer()
	item := testItem(primitive.NewObjectID(), 10, 5)
	f := newOrderFixture([]*models.User{customer}, item)

	require.NoError(t, f.cart.AddItem(context.Background(), customer.ID, item.ID, 1))
	order, err := f.svc.PlaceOrder(context.Background(), customer.ID)
	require.NoError(t, err)

	_, err = f.svc.GetOrder(context.Background(), order.ID, customer.ID, models.RoleCustomer)
	assert.NoError(t, err)
	_, err = f.svc.GetOrder(context.Background(), order.ID, item.SellerID, models.RoleSeller)
	assert.NoError(t, err)

	_, err = f.svc.GetOrder(context.Background(), order.ID, primitive.NewObjectID(), models.RoleCustomer)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListOrdersScopedAndFiltered(t *testing.T) {
	first := testCustomer()
	second := testCustomer()
	second.Email = "other@example.com"
	sellerID := primitive.NewObjectID()
	itemA := testItem(sellerID, 10, 10)
	itemB := testItem(sellerID, 20, 10)
	f := newOrderFixture([]*models.User{first, second}, itemA, itemB)

	require.NoError(t, f.cart.AddItem(context.Background(), first.ID, itemA.ID, 1))
	orderA, err := f.svc.PlaceOrder(context.Background(), first.ID)
	require.NoError(t, err)

	require.NoError(t, f.cart.AddItem(context.Background(), second.ID, itemB.ID, 1))
	_, err = f.svc.PlaceOrder(context.Background(), second.ID)
	require.NoError(t, err)

	mine, err := f.svc.ListOrders(context.Background(), first.ID, models.RoleCustomer, "")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, orderA.ID, mine[0].ID)

	all, err := f.svc.ListOrders(context.Background(), sellerID, models.RoleSeller, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pending, err := f.svc.ListOrders(context.Background(), sellerID, models.RoleSeller, models.OrderPending)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	cancelled, err := f.svc.ListOrders(context.Background(), sellerID, models.RoleSeller, models.OrderCancelled)
	require.NoError(t, err)
	assert.Empty(t, cancelled)
}

// Two customers race for the last unit: exactly one checkout succeeds and
// stock ends at zero, never negative.
func TestConcurrentCheckoutLastUnit(t *testing.T) {
	first := testCustomer()
	second := testCustomer()
	second.Email = "other@example.com"
	item := testItem(primitive.NewObjectID(), 10, 1)
	f := newOrderFixture([]*models.User{first, second}, item)

	// Both carts were filled while stock still read 1.
	for _, customer := range []*models.User{first, second} {
		f.carts.seed(&models.Cart{
			OwnerID: customer.ID,
			Lines: []models.CartLine{{
				ItemID:      item.ID,
				SellerID:    item.SellerID,
				Name:        item.Name,
				Price:       item.Price,
				Quantity:    1,
				IsAvailable: true,
			}},
		})
	}

	var wg sync.WaitGroup
	gate := make(chan struct{})
	errs := make([]error, 2)
	for i, customer := range []*models.User{first, second} {
		wg.Add(1)
		go func(idx int, id primitive.ObjectID) {
			defer wg.Done()
			<-gate
			_, errs[idx] = f.svc.PlaceOrder(context.Background(), id)
		}(i, customer.ID)
	}
	close(gate)
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		// The loser fails at the conditional decrement, or already at the
		// strict reconcile if the winner's decrement landed first.
		kind := apperr.KindOf(err)
		assert.Contains(t, []apperr.Kind{apperr.KindInsufficientStock, apperr.KindOutOfStock}, kind)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, f.items.stock(item.ID))
}
