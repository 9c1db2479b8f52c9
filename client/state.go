package client

import (
	"sort"

	"github.com/shopspring/decimal"

	"go-storefront/models"
	"go-storefront/pricing"
)

// Session is the signed-in user as the client remembers it.
type Session struct {
	UserID  string `json:"userId"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Token   string `json:"token"`
}

// Line is a cart entry with the product data needed to render and price it.
type Line struct {
	Product models.Product `json:"product"`
	Count   int            `json:"count"`
}

// Delta is a not yet confirmed change to one product's count.
type Delta struct {
	Product models.Product `json:"product"`
	Delta   int            `json:"delta"`
}

// Cart is the two-tier cart: the last state the server confirmed plus
// local changes still in flight. Lines() is the only view callers render.
type Cart struct {
	Confirmed []Line
	Pending   []Delta
}

// Lines is reconcile(Confirmed, Pending).
func (c *Cart) Lines() []Line {
	return reconcile(c.Confirmed, c.Pending)
}

// Count returns the reconciled count for productID.
func (c *Cart) Count(productID string) int {
	for _, l := range c.Lines() {
		if l.Product.ID.Hex() == productID {
			return l.Count
		}
	}
	return 0
}

func (c *Cart) stage(p models.Product, delta int) {
	id := p.ID.Hex()
	for i := range c.Pending {
		if c.Pending[i].Product.ID.Hex() == id {
			c.Pending[i].Delta += delta
			return
		}
	}
	c.Pending = append(c.Pending, Delta{Product: p, Delta: delta})
}

// confirm replaces the confirmed tier with the server's lines and drops
// delta from the pending change of productID.
func (c *Cart) confirm(lines []Line, productID string, delta int) {
	c.Confirmed = lines
	c.unstage(productID, delta)
}

// rollback discards delta from the pending change of productID.
func (c *Cart) rollback(productID string, delta int) {
	c.unstage(productID, delta)
}

// commit folds a pending change into the confirmed tier. Used when there is
// no server to confirm against.
func (c *Cart) commit(productID string, delta int) {
	c.Confirmed = reconcile(c.Confirmed, c.pendingFor(productID, delta))
	c.unstage(productID, delta)
}

func (c *Cart) pendingFor(productID string, delta int) []Delta {
	for _, d := range c.Pending {
		if d.Product.ID.Hex() == productID {
			return []Delta{{Product: d.Product, Delta: delta}}
		}
	}
	return nil
}

func (c *Cart) unstage(productID string, delta int) {
	for i := range c.Pending {
		if c.Pending[i].Product.ID.Hex() != productID {
			continue
		}
		c.Pending[i].Delta -= delta
		if c.Pending[i].Delta == 0 {
			c.Pending = append(c.Pending[:i], c.Pending[i+1:]...)
		}
		return
	}
}

func (c *Cart) reset() {
	c.Confirmed = nil
	c.Pending = nil
}

// reconcile applies pending deltas to confirmed lines. Lines whose count
// drops to zero or below disappear; deltas for products without a line
// append one. Confirmed order is kept, new lines follow sorted by product id.
func reconcile(confirmed []Line, pending []Delta) []Line {
	out := make([]Line, 0, len(confirmed)+len(pending))
	index := make(map[string]int, len(confirmed))
	for _, l := range confirmed {
		index[l.Product.ID.Hex()] = len(out)
		out = append(out, l)
	}

	var added []Line
	for _, d := range pending {
		if i, ok := index[d.Product.ID.Hex()]; ok {
			out[i].Count += d.Delta
			continue
		}
		if d.Delta > 0 {
			added = append(added, Line{Product: d.Product, Count: d.Delta})
		}
	}
	sort.Slice(added, func(i, j int) bool { return added[i].Product.ID.Hex() < added[j].Product.ID.Hex() })
	out = append(out, added...)

	kept := out[:0]
	for _, l := range out {
		if l.Count > 0 {
			kept = append(kept, l)
		}
	}
	return kept
}

// AppState is everything the storefront client keeps between screens.
// It is not safe for concurrent use; Store serializes access.
type AppState struct {
	Session        *Session
	Addresses      []models.Address
	Cart           Cart
	DeliveryOption string
	Loved          []string

	// Not persisted.
	Orders []models.Order
	Err    error
}

func (s *AppState) SignedIn() bool {
	return s.Session != nil && s.Session.Token != ""
}

func (s *AppState) IsLoved(productID string) bool {
	for _, id := range s.Loved {
		if id == productID {
			return true
		}
	}
	return false
}

// ItemCount is the number of units in the cart.
func (s *AppState) ItemCount() int {
	n := 0
	for _, l := range s.Cart.Lines() {
		n += l.Count
	}
	return n
}

// Subtotal is the price of the cart before delivery.
func (s *AppState) Subtotal() decimal.Decimal {
	lines := s.Cart.Lines()
	pl := make([]pricing.Line, 0, len(lines))
	for _, l := range lines {
		pl = append(pl, pricing.Line{Price: l.Product.Price, Qty: l.Count})
	}
	return pricing.Subtotal(pl)
}

// DeliveryFee prices the chosen option, or the base fee when none is chosen.
// An option the rules do not know falls back to the base fee.
func (s *AppState) DeliveryFee(rules pricing.Rules) decimal.Decimal {
	sub := s.Subtotal()
	fee, err := rules.Fee(sub, s.DeliveryOption)
	if err != nil {
		fee, _ = rules.Fee(sub, pricing.Standard)
	}
	return fee
}

func (s *AppState) Total(rules pricing.Rules) decimal.Decimal {
	return s.Subtotal().Add(s.DeliveryFee(rules))
}

// Snapshot is the persisted subset of AppState.
type Snapshot struct {
	Session        *Session         `json:"session,omitempty"`
	Addresses      []models.Address `json:"addresses,omitempty"`
	Cart           []Line           `json:"cart,omitempty"`
	DeliveryOption string           `json:"deliveryOption,omitempty"`
	Loved          []string         `json:"loved,omitempty"`
}

// Snapshot captures what survives a restart. Pending cart changes were
// never confirmed and are dropped.
func (s *AppState) Snapshot() Snapshot {
	return Snapshot{
		Session:        s.Session,
		Addresses:      s.Addresses,
		Cart:           s.Cart.Confirmed,
		DeliveryOption: s.DeliveryOption,
		Loved:          s.Loved,
	}
}

// Restore rebuilds state from a snapshot. Orders and errors start empty.
func Restore(snap Snapshot) *AppState {
	return &AppState{
		Session:        snap.Session,
		Addresses:      snap.Addresses,
		Cart:           Cart{Confirmed: snap.Cart},
		DeliveryOption: snap.DeliveryOption,
		Loved:          snap.Loved,
	}
}

func linesFromView(view *models.CartView) []Line {
	if view == nil {
		return nil
	}
	lines := make([]Line, 0, len(view.Items))
	for _, it := range view.Items {
		lines = append(lines, Line{Product: it.Product, Count: it.Count})
	}
	return lines
}
