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

type OrderService interface {
	Create(ctx context.Context, user *models.User, req models.CreateOrderRequest) (*models.Order, error)
	List(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error)
	Clear(ctx context.Context, userID primitive.ObjectID) (int64, error)
	MarkPaid(ctx context.Context, orderHex string) (*models.Order, error)
	MarkDelivered(ctx context.Context, orderHex string) (*models.Order, error)
}

// OrderController handles order-related requests
type OrderController struct {
	orders OrderService
	logger *zap.Logger
}

func NewOrderController(orders OrderService, logger *zap.Logger) *OrderController {
	return &OrderController{orders: orders, logger: logger}
}

type orderResponse struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

type ordersResponse struct {
	Message string         `json:"message"`
	Orders  []models.Order `json:"orders"`
}

// CreateOrder places an order from the checkout snapshot. Card orders must
// reference a succeeded payment intent for the exact total.
func (oc *OrderController) CreateOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.CreateOrderRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, oc.logger, "create order", err)
		return
	}

	order, err := oc.orders.Create(r.Context(), user, req)
	if err != nil {
		respondError(w, oc.logger, "create order", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, orderResponse{Message: "Order created successfully", Order: order})
}

// GetOrders retrieves the user's orders, newest first.
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	orders, err := oc.orders.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, oc.logger, "get orders", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ordersResponse{Message: "Orders retrieved successfully", Orders: orders})
}

func (oc *OrderController) ClearOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if _, err := oc.orders.Clear(r.Context(), user.ID); err != nil {
		respondError(w, oc.logger, "clear orders", err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Orders cleared successfully")
}

// UpdateOrderPaymentStatus marks an order paid. Admin only.
func (oc *OrderController) UpdateOrderPaymentStatus(w http.ResponseWriter, r *http.Request) {
	order, err := oc.orders.MarkPaid(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, oc.logger, "mark paid", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orderResponse{Message: "Order marked as paid", Order: order})
}

// UpdateOrderDeliveryStatus marks an order delivered. Admin only.
func (oc *OrderController) UpdateOrderDeliveryStatus(w http.ResponseWriter, r *http.Request) {
	order, err := oc.orders.MarkDelivered(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondError(w, oc.logger, "mark delivered", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, orderResponse{Message: "Order marked as delivered", Order: order})
}
