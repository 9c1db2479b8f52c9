package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/store"
)

// CartService validates cart changes against stock and applies them.
//
// Stock is read and the cart is written in separate round trips, so two
// concurrent adds can both pass the check for the last unit. Stock is not
// reserved.
type CartService struct {
	carts    CartRepository
	products ProductRepository
}

func NewCartService(carts CartRepository, products ProductRepository) *CartService {
	return &CartService{carts: carts, products: products}
}

// Get returns the cart with products resolved. Lines whose product no longer exists are skipped.
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, s.wrapUser(err, "get cart")
	}

	ids := make([]primitive.ObjectID, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.Product)
	}
	products, err := s.products.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get cart products: %w", err)
	}
	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	view := &models.CartView{Items: make([]models.CartLine, 0, len(cart.Items))}
	for _, it := range cart.Items {
		p, ok := byID[it.Product]
		if !ok {
			continue
		}
		view.Items = append(view.Items, models.CartLine{Product: p, Count: it.Count})
	}
	return view, nil
}

// Add puts count units of a product in the cart, merging with an existing line.
func (s *CartService) Add(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error) {
	productID, err := parseID(productHex)
	if err != nil {
		return nil, err
	}
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, s.wrapUser(err, "get cart")
	}

	wanted := count
	if line, ok := cart.Find(productID); ok {
		wanted += line.Count
	}
	if err := s.checkStock(ctx, productID, wanted); err != nil {
		return nil, err
	}

	if err := s.carts.AddCartCount(ctx, userID, productID, count); err != nil {
		return nil, s.wrapUser(err, "add cart item")
	}
	return s.Get(ctx, userID)
}

// Update overwrites a line's count. A zero count removes the line.
func (s *CartService) Update(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error) {
	productID, err := parseID(productHex)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return s.removeLine(ctx, userID, productID)
	}
	return s.setCount(ctx, userID, productID, count)
}

// SetQuantity overwrites a line's count; count must be positive.
func (s *CartService) SetQuantity(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error) {
	productID, err := parseID(productHex)
	if err != nil {
		return nil, err
	}
	return s.setCount(ctx, userID, productID, count)
}

func (s *CartService) Remove(ctx context.Context, userID primitive.ObjectID, productHex string) (*models.CartView, error) {
	productID, err := parseID(productHex)
	if err != nil {
		return nil, err
	}
	return s.removeLine(ctx, userID, productID)
}

func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error) {
	if err := s.carts.ClearCart(ctx, userID); err != nil {
		return nil, s.wrapUser(err, "clear cart")
	}
	return &models.CartView{Items: []models.CartLine{}}, nil
}

func (s *CartService) setCount(ctx context.Context, userID, productID primitive.ObjectID, count int) (*models.CartView, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, s.wrapUser(err, "get cart")
	}
	if _, ok := cart.Find(productID); !ok {
		return nil, ErrNotInCart
	}
	if err := s.checkStock(ctx, productID, count); err != nil {
		return nil, err
	}
	if err := s.carts.SetCartCount(ctx, userID, productID, count); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNotInCart
		}
		return nil, fmt.Errorf("set cart count: %w", err)
	}
	return s.Get(ctx, userID)
}

func (s *CartService) removeLine(ctx context.Context, userID, productID primitive.ObjectID) (*models.CartView, error) {
	cart, err := s.carts.GetCart(ctx, userID)
	if err != nil {
		return nil, s.wrapUser(err, "get cart")
	}
	if _, ok := cart.Find(productID); !ok {
		return nil, ErrNotInCart
	}
	if err := s.carts.RemoveCartItem(ctx, userID, productID); err != nil {
		return nil, s.wrapUser(err, "remove cart item")
	}
	return s.Get(ctx, userID)
}

func (s *CartService) checkStock(ctx context.Context, productID primitive.ObjectID, count int) error {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("get product: %w", err)
	}
	return stockError(product, count)
}

func (s *CartService) wrapUser(err error, op string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}

func stockError(p *models.Product, count int) error {
	if !p.InStock {
		return ErrOutOfStock
	}
	if p.Quantity < count {
		return &StockError{Available: p.Quantity}
	}
	return nil
}

func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}
