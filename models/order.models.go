package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

const (
	PaymentStatusPending = "Pending"
	PaymentStatusPaid    = "Paid"
)

// OrderItem is a priced line copied into an order at checkout.
type OrderItem struct {
	Product primitive.ObjectID `bson:"product" json:"product"`
	Name    string             `bson:"name,omitempty" json:"name,omitempty"`
	Image   string             `bson:"image,omitempty" json:"image,omitempty"`
	Qty     int                `bson:"qty" json:"qty" validate:"gte=1"`
	Price   float64            `bson:"price" json:"price" validate:"gte=0"`
}

type PaymentData struct {
	PaymentIntentID string `bson:"paymentIntentId" json:"paymentIntentId"`
}

// Order represents a user's order
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	OrderItems      []OrderItem        `bson:"orderItems" json:"orderItems"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus   string             `bson:"paymentStatus" json:"paymentStatus"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	IsDelivered     bool               `bson:"isDelivered" json:"isDelivered"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	DeliveryOption  string             `bson:"deliveryOption" json:"deliveryOption"`
	ItemsPrice      float64            `bson:"itemsPrice" json:"itemsPrice"`
	ShippingPrice   float64            `bson:"shippingPrice" json:"shippingPrice"`
	TotalPrice      float64            `bson:"totalPrice" json:"totalPrice"`
	PaymentData     *PaymentData       `bson:"paymentData,omitempty" json:"paymentData,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreateOrderRequest is the checkout payload sent by the client.
type CreateOrderRequest struct {
	OrderItems      []OrderItem     `json:"orderItems" validate:"required,min=1,dive"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string          `json:"paymentMethod" validate:"required,oneof=card cash"`
	ItemsPrice      float64         `json:"itemsPrice" validate:"gte=0"`
	ShippingPrice   float64         `json:"shippingPrice" validate:"gte=0"`
	TotalPrice      float64         `json:"totalPrice" validate:"gte=0"`
	DeliveryOption  string          `json:"deliveryOption" validate:"required"`
	PaymentData     *PaymentData    `json:"paymentData,omitempty"`
}

// IntentID returns the attached payment intent id or "".
func (r CreateOrderRequest) IntentID() string {
	if r.PaymentData == nil {
		return ""
	}
	return r.PaymentData.PaymentIntentID
}
