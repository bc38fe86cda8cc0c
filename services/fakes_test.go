package services

import (
	"context"
	"sync"

	"go-marketplace/apperr"
	"go-marketplace/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory store fakes mirroring the MongoDB stores' semantics, including
// the conditional AdjustQuantity that serializes concurrent purchases.

type memItems struct {
	mu    sync.Mutex
	items map[primitive.ObjectID]*models.Item
}

func newMemItems(items ...*models.Item) *memItems {
	m := &memItems{items: make(map[primitive.ObjectID]*models.Item)}
	for _, item := range items {
		if item.ID.IsZero() {
			item.ID = primitive.NewObjectID()
		}
		cp := *item
		m.items[item.ID] = &cp
	}
	return m
}

func (m *memItems) GetByID(_ context.Context, id primitive.ObjectID) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "item with id %s not found", id.Hex())
	}
	cp := *item
	return &cp, nil
}

func (m *memItems) List(_ context.Context, q models.ItemQuery) ([]models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Item
	for _, item := range m.items {
		if !q.SellerID.IsZero() && item.SellerID != q.SellerID {
			continue
		}
		if !q.CategoryID.IsZero() && item.CategoryID != q.CategoryID {
			continue
		}
		if q.IsAvailable != nil && item.IsAvailable != *q.IsAvailable {
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

func (m *memItems) Create(_ context.Context, item *models.Item) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item.ID = primitive.NewObjectID()
	cp := *item
	m.items[item.ID] = &cp
	return item, nil
}

func (m *memItems) Update(_ context.Context, item *models.Item) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[item.ID]; !ok {
		return nil, apperr.New(apperr.KindNotFound, "item with id %s not found", item.ID.Hex())
	}
	cp := *item
	m.items[item.ID] = &cp
	return item, nil
}

func (m *memItems) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return apperr.New(apperr.KindNotFound, "item with id %s not found", id.Hex())
	}
	delete(m.items, id)
	return nil
}

func (m *memItems) AdjustQuantity(_ context.Context, id primitive.ObjectID, delta int) (*models.Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.items[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "item with id %s not found", id.Hex())
	}
	if item.Unlimited {
		cp := *item
		return &cp, nil
	}
	if delta < 0 && item.Quantity < -delta {
		return nil, apperr.New(apperr.KindInsufficientStock,
			"item %q has only %d left in stock", item.Name, item.Quantity)
	}
	item.Quantity += delta
	if item.Quantity == 0 {
		item.IsAvailable = false
	}
	cp := *item
	return &cp, nil
}

// stock returns the current quantity without error plumbing.
func (m *memItems) stock(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id].Quantity
}

type memCarts struct {
	mu    sync.Mutex
	carts map[primitive.ObjectID]*models.Cart
}

func newMemCarts() *memCarts {
	return &memCarts{carts: make(map[primitive.ObjectID]*models.Cart)}
}

func copyCart(cart *models.Cart) *models.Cart {
	cp := *cart
	cp.Lines = make([]models.CartLine, len(cart.Lines))
	copy(cp.Lines, cart.Lines)
	return &cp
}

func (m *memCarts) Get(_ context.Context, ownerID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[ownerID]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "cart for customer %s not found", ownerID.Hex())
	}
	return copyCart(cart), nil
}

func (m *memCarts) Create(_ context.Context, ownerID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart := &models.Cart{
		ID:      primitive.NewObjectID(),
		OwnerID: ownerID,
		Lines:   []models.CartLine{},
	}
	m.carts[ownerID] = cart
	return copyCart(cart), nil
}

func (m *memCarts) Save(_ context.Context, cart *models.Cart) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.OwnerID] = copyCart(cart)
	return cart, nil
}

func (m *memCarts) Clear(_ context.Context, ownerID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart, ok := m.carts[ownerID]; ok {
		cart.Lines = []models.CartLine{}
		cart.Total = 0
	}
	return nil
}

// seed plants a cart directly, bypassing the service's add rules.
func (m *memCarts) seed(cart *models.Cart) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart.RecomputeTotal()
	m.carts[cart.OwnerID] = copyCart(cart)
}

type memOrders struct {
	mu     sync.Mutex
	orders map[primitive.ObjectID]*models.Order
}

func newMemOrders() *memOrders {
	return &memOrders{orders: make(map[primitive.ObjectID]*models.Order)}
}

func (m *memOrders) Insert(_ context.Context, order *models.Order) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	cp := *order
	m.orders[order.ID] = &cp
	return order, nil
}

func (m *memOrders) GetByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "order with id %s not found", id.Hex())
	}
	cp := *order
	return &cp, nil
}

func (m *memOrders) List(_ context.Context, q models.OrderQuery) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []models.Order
	for _, order := range m.orders {
		if !q.CustomerID.IsZero() && order.CustomerID != q.CustomerID {
			continue
		}
		if !q.SellerID.IsZero() && order.SellerID != q.SellerID {
			continue
		}
		if q.Status != "" && order.Status != q.Status {
			continue
		}
		result = append(result, *order)
	}
	return result, nil
}

func (m *memOrders) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "order with id %s not found", id.Hex())
	}
	order.Status = status
	cp := *order
	return &cp, nil
}

type memUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
}

func newMemUsers(users ...*models.User) *memUsers {
	m := &memUsers{users: make(map[primitive.ObjectID]*models.User)}
	for _, user := range users {
		if user.ID.IsZero() {
			user.ID = primitive.NewObjectID()
		}
		m.users[user.ID] = user
	}
	return m
}

func (m *memUsers) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, apperr.New(apperr.KindNotFound, "user with id %s not found", id.Hex())
	}
	return user, nil
}

func testCustomer() *models.User {
	return &models.User{
		ID:    primitive.NewObjectID(),
		Email: "customer@example.com",
		Role:  models.RoleCustomer,
		Customer: &models.CustomerProfile{
			FirstName:   "Amira",
			LastName:    "Haddad",
			PhoneNumber: "+96171123456",
			Address:     "12 Maarad Street, Tripoli",
		},
	}
}

func testItem(sellerID primitive.ObjectID, price float64, quantity int) *models.Item {
	return &models.Item{
		ID:          primitive.NewObjectID(),
		SellerID:    sellerID,
		CategoryID:  primitive.NewObjectID(),
		Name:        "Teakwood Chair",
		Price:       price,
		Quantity:    quantity,
		IsAvailable: quantity > 0,
	}
}
