package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/utils"
)

type CartService interface {
	Get(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error)
	Add(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error)
	Update(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error)
	SetQuantity(ctx context.Context, userID primitive.ObjectID, productHex string, count int) (*models.CartView, error)
	Remove(ctx context.Context, userID primitive.ObjectID, productHex string) (*models.CartView, error)
	Clear(ctx context.Context, userID primitive.ObjectID) (*models.CartView, error)
}

// CartController handles cart-related requests. Every endpoint answers
// with the full cart so the client can replace its confirmed lines.
type CartController struct {
	carts  CartService
	logger *zap.Logger
}

func NewCartController(carts CartService, logger *zap.Logger) *CartController {
	return &CartController{carts: carts, logger: logger}
}

func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	cc.respond(w, "get cart")(cc.carts.Get(r.Context(), user.ID))
}

// AddToCart adds count units of a product, merging with an existing line.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.AddCartItemRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, cc.logger, "add to cart", err)
		return
	}
	cc.respond(w, "add to cart")(cc.carts.Add(r.Context(), user.ID, req.ProductID, req.Count))
}

// UpdateCartItem overwrites a line's count; zero removes it.
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.UpdateCartItemRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, cc.logger, "update cart", err)
		return
	}
	cc.respond(w, "update cart")(cc.carts.Update(r.Context(), user.ID, req.ProductID, *req.Count))
}

func (cc *CartController) UpdateCartQuantity(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.SetQuantityRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, cc.logger, "set quantity", err)
		return
	}
	cc.respond(w, "set quantity")(cc.carts.SetQuantity(r.Context(), user.ID, mux.Vars(r)["productId"], req.Count))
}

func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	cc.respond(w, "remove from cart")(cc.carts.Remove(r.Context(), user.ID, mux.Vars(r)["productId"]))
}

func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	cc.respond(w, "clear cart")(cc.carts.Clear(r.Context(), user.ID))
}

func (cc *CartController) respond(w http.ResponseWriter, op string) func(*models.CartView, error) {
	return func(view *models.CartView, err error) {
		if err != nil {
			respondError(w, cc.logger, op, err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, view)
	}
}
