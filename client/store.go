package client

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"go-storefront/models"
	"go-storefront/pricing"
)

var (
	ErrInsufficientStock = errors.New("not enough stock")
	ErrOutOfStock        = errors.New("product is out of stock")
)

// API is the part of *Client the store drives.
type API interface {
	SetToken(token string)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*models.AuthResponse, error)

	Cart(ctx context.Context) (*models.CartView, error)
	AddToCart(ctx context.Context, productID string, count int) (*models.CartView, error)
	UpdateCartItem(ctx context.Context, productID string, count int) (*models.CartView, error)
	RemoveFromCart(ctx context.Context, productID string) (*models.CartView, error)
	ClearCart(ctx context.Context) (*models.CartView, error)

	Addresses(ctx context.Context) ([]models.Address, error)
	AddAddress(ctx context.Context, addr models.ShippingAddress) ([]models.Address, error)
	UpdateAddress(ctx context.Context, id string, addr models.ShippingAddress) ([]models.Address, error)
	DeleteAddress(ctx context.Context, id string) ([]models.Address, error)

	Loved(ctx context.Context) ([]string, error)
	AddLoved(ctx context.Context, productID string) ([]string, error)
	RemoveLoved(ctx context.Context, productID string) ([]string, error)

	Orders(ctx context.Context) ([]models.Order, error)
}

// Store owns the AppState and keeps it in step with the API.
//
// Cart changes are optimistic: the change is staged as a pending delta,
// the request is sent, and the delta is either confirmed with the server's
// cart or rolled back. Cart requests run one at a time so replies arrive
// in the order they were issued, and loved toggles likewise. Without a
// session the cart is local only.
type Store struct {
	mu      sync.RWMutex
	cartMu  sync.Mutex
	lovedMu sync.Mutex

	api       API
	state     *AppState
	rules     pricing.Rules
	persister Persister
}

// Open restores the persisted state and returns a store around it.
// persister may be nil, in which case nothing is saved.
func Open(api API, rules pricing.Rules, persister Persister) (*Store, error) {
	state := &AppState{}
	if persister != nil {
		snap, err := persister.Load()
		if err != nil {
			return nil, err
		}
		state = Restore(snap)
	}
	if state.SignedIn() {
		api.SetToken(state.Session.Token)
	}
	return &Store{api: api, state: state, rules: rules, persister: persister}, nil
}

// View calls fn with the state under a read lock. fn must not keep references.
func (s *Store) View(fn func(st *AppState)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.state)
}

func (s *Store) Rules() pricing.Rules { return s.rules }

func (s *Store) Lines() []Line {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Cart.Lines()
}

func (s *Store) Subtotal() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Subtotal()
}

func (s *Store) DeliveryFee() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.DeliveryFee(s.rules)
}

func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Total(s.rules)
}

// Login signs in and replaces the local cart with the server's. A cart
// built before signing in is discarded, not merged.
func (s *Store) Login(ctx context.Context, email, password string) error {
	resp, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.fail(err)
		return err
	}
	return s.startSession(ctx, resp)
}

// Register creates the account and signs in.
func (s *Store) Register(ctx context.Context, req models.RegisterRequest) error {
	resp, err := s.api.Register(ctx, req)
	if err != nil {
		s.fail(err)
		return err
	}
	return s.startSession(ctx, resp)
}

func (s *Store) startSession(ctx context.Context, resp *models.AuthResponse) error {
	s.api.SetToken(resp.Token)
	s.mu.Lock()
	s.state.Session = &Session{
		UserID:  resp.ID.Hex(),
		Name:    resp.Name,
		Email:   resp.Email,
		IsAdmin: resp.IsAdmin,
		Token:   resp.Token,
	}
	s.state.Cart.reset()
	s.state.Err = nil
	s.mu.Unlock()

	if err := s.Refresh(ctx); err != nil {
		return err
	}
	return s.save()
}

// Logout forgets the session and everything tied to it.
func (s *Store) Logout() error {
	s.api.SetToken("")
	s.mu.Lock()
	s.state.Session = nil
	s.state.Addresses = nil
	s.state.Cart.reset()
	s.state.DeliveryOption = ""
	s.state.Loved = nil
	s.state.Orders = nil
	s.state.Err = nil
	s.mu.Unlock()
	return s.save()
}

// Refresh reloads the server-held aggregates.
func (s *Store) Refresh(ctx context.Context) error {
	if !s.signedIn() {
		return ErrNotAuthenticated
	}

	var (
		view   *models.CartView
		addrs  []models.Address
		loved  []string
		orders []models.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) { view, err = s.api.Cart(gctx); return })
	g.Go(func() (err error) { addrs, err = s.api.Addresses(gctx); return })
	g.Go(func() (err error) { loved, err = s.api.Loved(gctx); return })
	g.Go(func() (err error) { orders, err = s.api.Orders(gctx); return })
	if err := g.Wait(); err != nil {
		s.fail(err)
		return err
	}

	s.cartMu.Lock()
	defer s.cartMu.Unlock()
	s.mu.Lock()
	s.state.Cart.Confirmed = linesFromView(view)
	s.state.Cart.Pending = nil
	s.state.Addresses = addrs
	s.state.Loved = loved
	s.state.Orders = orders
	s.state.Err = nil
	s.mu.Unlock()
	return s.save()
}

// AddToCart adds count units of p.
func (s *Store) AddToCart(ctx context.Context, p models.Product, count int) error {
	if count < 1 {
		return errors.New("add to cart: count must be at least 1")
	}
	id := p.ID.Hex()
	return s.mutateCart(ctx,
		func(st *AppState) (models.Product, int, error) {
			if !st.SignedIn() {
				if err := checkStock(p, st.Cart.Count(id)+count); err != nil {
					return p, 0, err
				}
			}
			return p, count, nil
		},
		func(ctx context.Context) (*models.CartView, error) { return s.api.AddToCart(ctx, id, count) },
	)
}

// SetCartCount sets the count for p; zero removes the line.
func (s *Store) SetCartCount(ctx context.Context, p models.Product, count int) error {
	if count < 0 {
		return errors.New("set cart count: count must not be negative")
	}
	id := p.ID.Hex()
	return s.mutateCart(ctx,
		func(st *AppState) (models.Product, int, error) {
			if count > 0 && !st.SignedIn() {
				if err := checkStock(p, count); err != nil {
					return p, 0, err
				}
			}
			return p, count - st.Cart.Count(id), nil
		},
		func(ctx context.Context) (*models.CartView, error) { return s.api.UpdateCartItem(ctx, id, count) },
	)
}

func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutateCart(ctx,
		func(st *AppState) (models.Product, int, error) {
			for _, l := range st.Cart.Lines() {
				if l.Product.ID.Hex() == productID {
					return l.Product, -l.Count, nil
				}
			}
			return models.Product{}, 0, nil
		},
		func(ctx context.Context) (*models.CartView, error) { return s.api.RemoveFromCart(ctx, productID) },
	)
}

// ClearCart empties the cart, restoring it if the request fails.
func (s *Store) ClearCart(ctx context.Context) error {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	s.mu.Lock()
	lines := s.state.Cart.Lines()
	for _, l := range lines {
		s.state.Cart.stage(l.Product, -l.Count)
	}
	if !s.state.SignedIn() {
		s.state.Cart.reset()
		s.mu.Unlock()
		return s.save()
	}
	s.mu.Unlock()

	view, err := s.api.ClearCart(ctx)

	s.mu.Lock()
	for _, l := range lines {
		s.state.Cart.unstage(l.Product.ID.Hex(), -l.Count)
	}
	if err == nil {
		s.state.Cart.Confirmed = linesFromView(view)
	}
	s.setErr(err)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.save()
}

func (s *Store) mutateCart(ctx context.Context,
	plan func(st *AppState) (models.Product, int, error),
	call func(ctx context.Context) (*models.CartView, error)) error {
	s.cartMu.Lock()
	defer s.cartMu.Unlock()

	s.mu.Lock()
	p, delta, err := plan(s.state)
	if err != nil {
		s.setErr(err)
		s.mu.Unlock()
		return err
	}
	id := p.ID.Hex()
	s.state.Cart.stage(p, delta)
	if !s.state.SignedIn() {
		s.state.Cart.commit(id, delta)
		s.mu.Unlock()
		return s.save()
	}
	s.mu.Unlock()

	view, err := call(ctx)

	s.mu.Lock()
	if err != nil {
		s.state.Cart.rollback(id, delta)
	} else {
		s.state.Cart.confirm(linesFromView(view), id, delta)
	}
	s.setErr(err)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.save()
}

func checkStock(p models.Product, count int) error {
	if !p.InStock {
		return ErrOutOfStock
	}
	if !p.Available(count) {
		return fmt.Errorf("only %d items available: %w", p.Quantity, ErrInsufficientStock)
	}
	return nil
}

// SetDeliveryOption picks a delivery tier for checkout.
func (s *Store) SetDeliveryOption(id string) error {
	if _, err := s.rules.Tier(id); err != nil {
		return err
	}
	s.mu.Lock()
	s.state.DeliveryOption = id
	s.mu.Unlock()
	return s.save()
}

// ToggleLoved adds or removes productID from the loved set.
func (s *Store) ToggleLoved(ctx context.Context, productID string) error {
	s.lovedMu.Lock()
	defer s.lovedMu.Unlock()

	s.mu.Lock()
	loved := s.state.IsLoved(productID)
	before := s.state.Loved
	if loved {
		s.state.Loved = without(before, productID)
	} else {
		s.state.Loved = append(append([]string{}, before...), productID)
	}
	signedIn := s.state.SignedIn()
	s.mu.Unlock()

	if !signedIn {
		return s.save()
	}

	var (
		items []string
		err   error
	)
	if loved {
		items, err = s.api.RemoveLoved(ctx, productID)
	} else {
		items, err = s.api.AddLoved(ctx, productID)
	}

	s.mu.Lock()
	if err != nil {
		s.state.Loved = before
	} else {
		s.state.Loved = items
	}
	s.setErr(err)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.save()
}

func without(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) AddAddress(ctx context.Context, addr models.ShippingAddress) error {
	return s.updateAddresses(func() ([]models.Address, error) { return s.api.AddAddress(ctx, addr) })
}

func (s *Store) UpdateAddress(ctx context.Context, id string, addr models.ShippingAddress) error {
	return s.updateAddresses(func() ([]models.Address, error) { return s.api.UpdateAddress(ctx, id, addr) })
}

func (s *Store) DeleteAddress(ctx context.Context, id string) error {
	return s.updateAddresses(func() ([]models.Address, error) { return s.api.DeleteAddress(ctx, id) })
}

func (s *Store) updateAddresses(call func() ([]models.Address, error)) error {
	if !s.signedIn() {
		return ErrNotAuthenticated
	}
	addrs, err := call()
	s.mu.Lock()
	if err == nil {
		s.state.Addresses = addrs
	}
	s.setErr(err)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	return s.save()
}

// RecordOrder adds a freshly placed order to the history.
func (s *Store) RecordOrder(order models.Order) {
	s.mu.Lock()
	s.state.Orders = append([]models.Order{order}, s.state.Orders...)
	s.mu.Unlock()
}

func (s *Store) signedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.SignedIn()
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	s.state.Err = err
	s.mu.Unlock()
}

// setErr records the outcome of the last request. Callers hold mu.
func (s *Store) setErr(err error) {
	s.state.Err = err
}

func (s *Store) save() error {
	if s.persister == nil {
		return nil
	}
	s.mu.RLock()
	snap := s.state.Snapshot()
	s.mu.RUnlock()
	return s.persister.Save(snap)
}
