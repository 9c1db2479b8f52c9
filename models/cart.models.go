package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem represents an item in the cart
type CartItem struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	Count   int                `bson:"count" json:"count"`
}

// Cart is embedded in the user document.
type Cart struct {
	Items []CartItem `bson:"items" json:"items"`
}

// Find returns the line for productID, if any.
func (c Cart) Find(productID primitive.ObjectID) (CartItem, bool) {
	for _, it := range c.Items {
		if it.Product == productID {
			return it, true
		}
	}
	return CartItem{}, false
}

// CartLine is a cart item with its product resolved.
type CartLine struct {
	Product Product `json:"product"`
	Count   int     `json:"count"`
}

// CartView is the response shape of every cart endpoint.
type CartView struct {
	Items []CartLine `json:"items"`
}

type AddCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Count     int    `json:"count" validate:"gte=1"`
}

// UpdateCartItemRequest allows a zero count, which removes the line.
// Count must be present.
type UpdateCartItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Count     *int   `json:"count" validate:"required,gte=0"`
}

type SetQuantityRequest struct {
	Count int `json:"count" validate:"gte=1"`
}
