package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/payments"
	"go-storefront/store"
)

// memStore is an in-memory stand-in for the Mongo store.
type memStore struct {
	mu         sync.Mutex
	users      map[primitive.ObjectID]*models.User
	products   map[primitive.ObjectID]models.Product
	categories map[primitive.ObjectID]models.Category
	loved      map[primitive.ObjectID][]string
	orders     map[primitive.ObjectID]models.Order

	// getCartHook runs after GetCart releases the lock.
	getCartHook func()
}

func newMemStore() *memStore {
	return &memStore{
		users:      map[primitive.ObjectID]*models.User{},
		products:   map[primitive.ObjectID]models.Product{},
		categories: map[primitive.ObjectID]models.Category{},
		loved:      map[primitive.ObjectID][]string{},
		orders:     map[primitive.ObjectID]models.Order{},
	}
}

func (m *memStore) addUser(u models.User) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	m.users[u.ID] = &u
	return &u
}

func (m *memStore) addProduct(p models.Product) models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	m.products[p.ID] = p
	return p
}

func (m *memStore) user(id primitive.ObjectID) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return u, nil
}

func (m *memStore) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return store.ErrDuplicate
		}
	}
	user.ID = primitive.NewObjectID()
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *memStore) GetUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(id)
	if err != nil {
		return nil, err
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) UpdateProfile(_ context.Context, id primitive.ObjectID, name, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(id)
	if err != nil {
		return err
	}
	u.Name, u.Email = name, email
	return nil
}

func (m *memStore) UpdatePassword(_ context.Context, id primitive.ObjectID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(id)
	if err != nil {
		return err
	}
	u.Password = hash
	u.ResetOtp = nil
	return nil
}

func (m *memStore) SetResetCode(_ context.Context, id primitive.ObjectID, code *models.ResetCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(id)
	if err != nil {
		return err
	}
	cp := *code
	u.ResetOtp = &cp
	return nil
}

func (m *memStore) DeleteUser(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := m.user(id); err != nil {
		return err
	}
	delete(m.users, id)
	return nil
}

func (m *memStore) AddAddress(_ context.Context, userID primitive.ObjectID, addr models.Address) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	u.Address = append(u.Address, addr)
	return nil
}

func (m *memStore) UpdateAddress(_ context.Context, userID primitive.ObjectID, addrID string, addr models.ShippingAddress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	for i := range u.Address {
		if u.Address[i].ID == addrID {
			u.Address[i].ShippingAddress = addr
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) DeleteAddress(_ context.Context, userID primitive.ObjectID, addrID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	for i := range u.Address {
		if u.Address[i].ID == addrID {
			u.Address = append(u.Address[:i:i], u.Address[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) PushOrder(_ context.Context, userID, orderID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	u.Orders = append(u.Orders, orderID)
	return nil
}

func (m *memStore) ClearOrderRefs(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	u.Orders = nil
	return nil
}

func (m *memStore) GetCart(_ context.Context, userID primitive.ObjectID) (models.Cart, error) {
	m.mu.Lock()
	u, err := m.user(userID)
	var cart models.Cart
	if err == nil {
		cart.Items = append([]models.CartItem(nil), u.Cart.Items...)
	}
	m.mu.Unlock()
	if m.getCartHook != nil {
		m.getCartHook()
	}
	return cart, err
}

func (m *memStore) AddCartCount(_ context.Context, userID, productID primitive.ObjectID, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	for i := range u.Cart.Items {
		if u.Cart.Items[i].Product == productID {
			u.Cart.Items[i].Count += delta
			return nil
		}
	}
	u.Cart.Items = append(u.Cart.Items, models.CartItem{Product: productID, Count: delta})
	return nil
}

func (m *memStore) SetCartCount(_ context.Context, userID, productID primitive.ObjectID, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	for i := range u.Cart.Items {
		if u.Cart.Items[i].Product == productID {
			u.Cart.Items[i].Count = count
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) RemoveCartItem(_ context.Context, userID, productID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	kept := u.Cart.Items[:0:0]
	for _, it := range u.Cart.Items {
		if it.Product != productID {
			kept = append(kept, it)
		}
	}
	u.Cart.Items = kept
	return nil
}

func (m *memStore) ClearCart(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.user(userID)
	if err != nil {
		return err
	}
	u.Cart.Items = nil
	return nil
}

func (m *memStore) GetProduct(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) GetProductsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memStore) ListProducts(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) CreateProduct(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) GetCategory(_ context.Context, id primitive.ObjectID) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m *memStore) ListCategories(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *memStore) CreateCategory(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	m.categories[c.ID] = *c
	return nil
}

func (m *memStore) GetLoved(_ context.Context, userID primitive.ObjectID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.loved[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]string(nil), items...), nil
}

func (m *memStore) AddLoved(_ context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.loved[userID]
	for _, id := range items {
		if id == productID {
			return append([]string(nil), items...), nil
		}
	}
	items = append(items, productID)
	m.loved[userID] = items
	return append([]string(nil), items...), nil
}

func (m *memStore) RemoveLoved(_ context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items, ok := m.loved[userID]
	if !ok {
		return nil, store.ErrNotFound
	}
	kept := []string{}
	for _, id := range items {
		if id != productID {
			kept = append(kept, id)
		}
	}
	m.loved[userID] = kept
	return append([]string(nil), kept...), nil
}

func (m *memStore) DeleteLoved(_ context.Context, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.loved, userID)
	return nil
}

func (m *memStore) CreateOrder(_ context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if order.PaymentData != nil {
		for _, o := range m.orders {
			if o.PaymentData != nil && o.PaymentData.PaymentIntentID == order.PaymentData.PaymentIntentID {
				return store.ErrDuplicate
			}
		}
	}
	order.ID = primitive.NewObjectID()
	m.orders[order.ID] = *order
	return nil
}

func (m *memStore) GetOrder(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &o, nil
}

func (m *memStore) ListOrdersByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.User == userID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memStore) FindOrderByPaymentIntent(_ context.Context, intentID string) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, o := range m.orders {
		if o.PaymentData != nil && o.PaymentData.PaymentIntentID == intentID {
			return &o, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) DeleteOrdersByUser(_ context.Context, userID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, o := range m.orders {
		if o.User == userID {
			delete(m.orders, id)
			n++
		}
	}
	return n, nil
}

func (m *memStore) MarkOrderPaid(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.IsPaid, o.PaidAt, o.PaymentStatus = true, &at, models.PaymentStatusPaid
	m.orders[id] = o
	return &o, nil
}

func (m *memStore) MarkOrderDelivered(_ context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	o.IsDelivered, o.DeliveredAt = true, &at
	m.orders[id] = o
	return &o, nil
}

type stubGateway struct {
	intents map[string]*payments.Intent
	created []int64
}

func (g *stubGateway) CreateIntent(_ context.Context, amount int64, currency string) (*payments.Intent, error) {
	g.created = append(g.created, amount)
	return &payments.Intent{ID: "pi_new", ClientSecret: "pi_new_secret", Amount: amount, Currency: currency}, nil
}

func (g *stubGateway) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	in, ok := g.intents[id]
	if !ok {
		return nil, payments.ErrIntentNotFound
	}
	return in, nil
}

type notification struct {
	to, kind, detail string
}

type stubNotifier struct {
	mu   sync.Mutex
	sent []notification
}

func (n *stubNotifier) record(x notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, x)
}

func (n *stubNotifier) SendPasswordResetCode(_ context.Context, to, code string) error {
	n.record(notification{to: to, kind: "reset", detail: code})
	return nil
}

func (n *stubNotifier) SendOrderConfirmationEmail(_ context.Context, to string, o models.Order) error {
	n.record(notification{to: to, kind: "confirmation", detail: o.ID.Hex()})
	return nil
}

func (n *stubNotifier) SendOrderStatusEmail(_ context.Context, to string, o models.Order, status string) error {
	n.record(notification{to: to, kind: "status", detail: status})
	return nil
}

type stubTokens struct{}

func (stubTokens) Generate(userID string) (string, error) { return "token-" + userID, nil }
