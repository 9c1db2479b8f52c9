// Package checkout drives the order placement steps on top of the client store.
package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"go-storefront/client"
	"go-storefront/models"
	"go-storefront/pricing"
)

type Step int

const (
	SelectAddress Step = iota
	SelectDelivery
	SelectPayment
	ReviewSummary
	Placed
)

func (s Step) String() string {
	switch s {
	case SelectAddress:
		return "address"
	case SelectDelivery:
		return "delivery"
	case SelectPayment:
		return "payment"
	case ReviewSummary:
		return "summary"
	case Placed:
		return "placed"
	}
	return fmt.Sprintf("step(%d)", int(s))
}

// Gate errors. They leave the wizard on its current step.
var (
	ErrEmptyCart        = errors.New("your cart is empty")
	ErrNoAddress        = errors.New("please select a shipping address")
	ErrUnknownAddress   = errors.New("address not found")
	ErrNoDelivery       = errors.New("please select a delivery option")
	ErrNoPaymentMethod  = errors.New("please select a payment method")
	ErrNotReady         = errors.New("order is not ready to be placed")
	ErrAlreadyPlaced    = errors.New("order already placed")
	ErrAmountTooSmall   = errors.New("invalid order amount, minimum is 50 cents")
	ErrPaymentCancelled = errors.New("payment was not completed")
)

// minIntentAmount is the smallest card charge in minor units.
const minIntentAmount = 50

// Confirmer completes a card payment for an intent, e.g. through the
// gateway's hosted payment sheet.
type Confirmer interface {
	Confirm(ctx context.Context, clientSecret string) error
}

// API is the part of the storefront client the wizard calls directly.
type API interface {
	CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*models.PaymentIntentResponse, error)
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error)
}

type paidIntent struct {
	id     string
	amount int64
}

// Wizard walks a signed-in shopper from address selection to a placed order.
// A Wizard is used by one screen at a time and is not safe for concurrent use.
type Wizard struct {
	store     *client.Store
	api       API
	confirmer Confirmer
	currency  string
	logger    *zap.Logger

	step          Step
	address       *models.Address
	paymentMethod string
	// paid is a card payment the gateway confirmed but no order carries yet.
	paid  *paidIntent
	order *models.Order
}

// New starts a wizard on the address step with cash preselected.
func New(store *client.Store, api API, confirmer Confirmer, currency string, logger *zap.Logger) *Wizard {
	return &Wizard{
		store:         store,
		api:           api,
		confirmer:     confirmer,
		currency:      currency,
		logger:        logger,
		step:          SelectAddress,
		paymentMethod: models.PaymentMethodCash,
	}
}

func (w *Wizard) Step() Step { return w.step }

func (w *Wizard) Address() *models.Address { return w.address }

func (w *Wizard) PaymentMethod() string { return w.paymentMethod }

// Order is the placed order, nil until the wizard reaches Placed.
func (w *Wizard) Order() *models.Order { return w.order }

// SelectAddress picks one of the saved addresses by id.
func (w *Wizard) SelectAddress(id string) error {
	var found *models.Address
	w.store.View(func(st *client.AppState) {
		for _, a := range st.Addresses {
			if a.ID == id {
				found = &a
				return
			}
		}
	})
	if found == nil {
		return ErrUnknownAddress
	}
	w.address = found
	return nil
}

// SelectDelivery stores the delivery tier on the client store so the fee
// follows the cart between screens.
func (w *Wizard) SelectDelivery(tier string) error {
	return w.store.SetDeliveryOption(tier)
}

func (w *Wizard) SelectPayment(method string) error {
	switch method {
	case models.PaymentMethodCard, models.PaymentMethodCash:
		w.paymentMethod = method
		return nil
	}
	return ErrNoPaymentMethod
}

// Next advances one step when the current step's fields are complete.
// ReviewSummary only moves on through PlaceOrder.
func (w *Wizard) Next() error {
	switch w.step {
	case SelectAddress:
		if err := w.checkAddress(); err != nil {
			return err
		}
	case SelectDelivery:
		if err := w.checkDelivery(); err != nil {
			return err
		}
	case SelectPayment:
		if err := w.checkPayment(); err != nil {
			return err
		}
	case ReviewSummary:
		return ErrNotReady
	case Placed:
		return ErrAlreadyPlaced
	}
	w.step++
	return nil
}

// Back moves one step back. It is a no-op on the first step and once placed.
func (w *Wizard) Back() {
	if w.step > SelectAddress && w.step < Placed {
		w.step--
	}
}

func (w *Wizard) checkAddress() error {
	if len(w.store.Lines()) == 0 {
		return ErrEmptyCart
	}
	if w.address == nil {
		return ErrNoAddress
	}
	return nil
}

func (w *Wizard) checkDelivery() error {
	var tier string
	w.store.View(func(st *client.AppState) { tier = st.DeliveryOption })
	if tier == "" {
		return ErrNoDelivery
	}
	return nil
}

func (w *Wizard) checkPayment() error {
	if w.paymentMethod == "" {
		return ErrNoPaymentMethod
	}
	return nil
}

func (w *Wizard) validate() error {
	if err := w.checkAddress(); err != nil {
		return err
	}
	if err := w.checkDelivery(); err != nil {
		return err
	}
	return w.checkPayment()
}

// PlaceOrder submits the order from the summary step.
//
// Card orders create and confirm a payment intent first. If order creation
// then fails the confirmed intent is kept and the next attempt for the same
// amount reuses it instead of charging again. The cart is cleared only after
// the order exists.
func (w *Wizard) PlaceOrder(ctx context.Context) (*models.Order, error) {
	if w.step == Placed {
		return nil, ErrAlreadyPlaced
	}
	if w.step != ReviewSummary {
		return nil, ErrNotReady
	}
	if err := w.validate(); err != nil {
		return nil, err
	}

	req := w.buildRequest()

	if w.paymentMethod == models.PaymentMethodCard {
		intentID, err := w.pay(ctx, pricing.MinorUnitsFloat(req.TotalPrice))
		if err != nil {
			return nil, err
		}
		req.PaymentData = &models.PaymentData{PaymentIntentID: intentID}
	}

	order, err := w.api.CreateOrder(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	w.paid = nil
	w.order = order
	w.step = Placed
	w.store.RecordOrder(*order)

	if err := w.store.ClearCart(ctx); err != nil {
		w.logger.Warn("clear cart after order", zap.String("order", order.ID.Hex()), zap.Error(err))
	}
	return order, nil
}

func (w *Wizard) pay(ctx context.Context, amount int64) (string, error) {
	if w.paid != nil && w.paid.amount == amount {
		w.logger.Info("reusing confirmed payment", zap.String("intent", w.paid.id))
		return w.paid.id, nil
	}
	if amount < minIntentAmount {
		return "", ErrAmountTooSmall
	}

	intent, err := w.api.CreatePaymentIntent(ctx, amount, w.currency)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	if err := w.confirmer.Confirm(ctx, intent.ClientSecret); err != nil {
		return "", fmt.Errorf("%w: %w", ErrPaymentCancelled, err)
	}

	w.paid = &paidIntent{id: intent.PaymentIntentID, amount: amount}
	return intent.PaymentIntentID, nil
}

func (w *Wizard) buildRequest() models.CreateOrderRequest {
	var tier string
	w.store.View(func(st *client.AppState) { tier = st.DeliveryOption })

	lines := w.store.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		item := models.OrderItem{
			Product: l.Product.ID,
			Name:    l.Product.Name,
			Qty:     l.Count,
			Price:   l.Product.Price,
		}
		if len(l.Product.Images) > 0 {
			item.Image = l.Product.Images[0]
		}
		items = append(items, item)
	}

	return models.CreateOrderRequest{
		OrderItems:      items,
		ShippingAddress: w.address.ShippingAddress,
		PaymentMethod:   w.paymentMethod,
		ItemsPrice:      w.store.Subtotal().InexactFloat64(),
		ShippingPrice:   w.store.DeliveryFee().InexactFloat64(),
		TotalPrice:      w.store.Total().InexactFloat64(),
		DeliveryOption:  tier,
	}
}
