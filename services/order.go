package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/payments"
	"go-storefront/pricing"
	"go-storefront/store"
)

const emailTimeout = 30 * time.Second

// OrderService turns a checkout snapshot into a persisted order.
//
// Prices in the snapshot are trusted as sent. For card orders the only
// server-side check on money is that the gateway-confirmed intent amount
// equals the order total.
type OrderService struct {
	orders   OrderRepository
	users    UserRepository
	products ProductRepository
	gateway  PaymentGateway
	notifier Notifier
	logger   *zap.Logger

	now func() time.Time
	wg  sync.WaitGroup
}

// NewOrderService wires the order workflow. gateway may be nil, in which case card orders are refused.
func NewOrderService(orders OrderRepository, users UserRepository, products ProductRepository, gateway PaymentGateway, notifier Notifier, logger *zap.Logger) *OrderService {
	return &OrderService{
		orders:   orders,
		users:    users,
		products: products,
		gateway:  gateway,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates stock and payment, persists the order and links it to the user.
func (s *OrderService) Create(ctx context.Context, user *models.User, req models.CreateOrderRequest) (*models.Order, error) {
	if err := s.checkStock(ctx, req.OrderItems); err != nil {
		return nil, err
	}

	now := s.now()
	order := &models.Order{
		User:            user.ID,
		OrderItems:      req.OrderItems,
		ShippingAddress: req.ShippingAddress,
		PaymentMethod:   req.PaymentMethod,
		PaymentStatus:   models.PaymentStatusPending,
		DeliveryOption:  req.DeliveryOption,
		ItemsPrice:      req.ItemsPrice,
		ShippingPrice:   req.ShippingPrice,
		TotalPrice:      req.TotalPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if req.PaymentMethod == models.PaymentMethodCard {
		intentID, err := s.verifyPayment(ctx, req)
		if err != nil {
			return nil, err
		}
		order.PaymentData = &models.PaymentData{PaymentIntentID: intentID}
		order.PaymentStatus = models.PaymentStatusPaid
		order.IsPaid = true
		order.PaidAt = &now
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrPaymentAlreadyUsed
		}
		return nil, fmt.Errorf("create order: %w", err)
	}
	// Orders are listed from the orders collection; the user's ref list is secondary.
	if err := s.users.PushOrder(ctx, user.ID, order.ID); err != nil {
		s.logger.Error("link order to user", zap.String("order", order.ID.Hex()), zap.Error(err))
	}

	s.notify(user.Email, *order, func(ctx context.Context, to string, o models.Order) error {
		return s.notifier.SendOrderConfirmationEmail(ctx, to, o)
	})
	return order, nil
}

// checkStock validates the summed quantity of every product in items.
func (s *OrderService) checkStock(ctx context.Context, items []models.OrderItem) error {
	qty := make(map[primitive.ObjectID]int, len(items))
	var ids []primitive.ObjectID
	for _, it := range items {
		if _, ok := qty[it.Product]; !ok {
			ids = append(ids, it.Product)
		}
		qty[it.Product] += it.Qty
	}
	for _, id := range ids {
		p, err := s.products.GetProduct(ctx, id)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("get product: %w", err)
		}
		if err := stockError(p, qty[id]); err != nil {
			return err
		}
	}
	return nil
}

func (s *OrderService) verifyPayment(ctx context.Context, req models.CreateOrderRequest) (string, error) {
	intentID := req.IntentID()
	if intentID == "" {
		return "", ErrPaymentIntentRequired
	}
	if s.gateway == nil {
		return "", ErrGatewayUnavailable
	}

	existing, err := s.orders.FindOrderByPaymentIntent(ctx, intentID)
	switch {
	case err == nil && existing != nil:
		return "", ErrPaymentAlreadyUsed
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return "", fmt.Errorf("find order by intent: %w", err)
	}

	intent, err := s.gateway.GetIntent(ctx, intentID)
	if err != nil {
		if errors.Is(err, payments.ErrIntentNotFound) {
			return "", ErrPaymentNotSucceeded
		}
		return "", fmt.Errorf("retrieve intent: %w", err)
	}
	if !intent.Succeeded {
		return "", ErrPaymentNotSucceeded
	}
	if intent.Amount != pricing.MinorUnitsFloat(req.TotalPrice) {
		return "", ErrAmountMismatch
	}
	return intentID, nil
}

// List returns the user's orders, newest first.
func (s *OrderService) List(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	orders, err := s.orders.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}

// Clear deletes the user's order history.
func (s *OrderService) Clear(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	n, err := s.orders.DeleteOrdersByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete orders: %w", err)
	}
	if err := s.users.ClearOrderRefs(ctx, userID); err != nil {
		return 0, fmt.Errorf("clear order refs: %w", err)
	}
	return n, nil
}

// MarkPaid flags an order paid, typically a cash order on collection.
func (s *OrderService) MarkPaid(ctx context.Context, orderHex string) (*models.Order, error) {
	return s.mark(ctx, orderHex, "Paid", s.orders.MarkOrderPaid)
}

func (s *OrderService) MarkDelivered(ctx context.Context, orderHex string) (*models.Order, error) {
	return s.mark(ctx, orderHex, "Delivered", s.orders.MarkOrderDelivered)
}

func (s *OrderService) mark(ctx context.Context, orderHex, status string, apply func(context.Context, primitive.ObjectID, time.Time) (*models.Order, error)) (*models.Order, error) {
	id, err := parseID(orderHex)
	if err != nil {
		return nil, err
	}
	order, err := apply(ctx, id, s.now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("mark order %s: %w", status, err)
	}

	if user, err := s.users.GetUserByID(ctx, order.User); err == nil {
		s.notify(user.Email, *order, func(ctx context.Context, to string, o models.Order) error {
			return s.notifier.SendOrderStatusEmail(ctx, to, o, status)
		})
	}
	return order, nil
}

// notify sends an email in the background; failures are logged only.
func (s *OrderService) notify(to string, order models.Order, send func(context.Context, string, models.Order) error) {
	if s.notifier == nil {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), emailTimeout)
		defer cancel()
		if err := send(ctx, to, order); err != nil {
			s.logger.Warn("order email failed", zap.String("order", order.ID.Hex()), zap.Error(err))
		}
	}()
}

// Close waits for pending emails.
func (s *OrderService) Close() {
	s.wg.Wait()
}
