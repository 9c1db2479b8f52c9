package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingAddress holds the delivery fields shared by saved addresses and orders.
type ShippingAddress struct {
	Name       string `bson:"name" json:"name" validate:"required"`
	Surname    string `bson:"surname,omitempty" json:"surname,omitempty"`
	Phone      string `bson:"phone" json:"phone" validate:"required"`
	City       string `bson:"city" json:"city" validate:"required"`
	HouseNo    string `bson:"houseNo" json:"houseNo" validate:"required"`
	StreetName string `bson:"streetName" json:"streetName" validate:"required"`
	PostalCode string `bson:"postalCode" json:"postalCode" validate:"required"`
	Country    string `bson:"country" json:"country" validate:"required"`
}

// Address is a saved shipping address with a stable identifier.
type Address struct {
	ID              string `bson:"_id" json:"_id"`
	ShippingAddress `bson:",inline"`
}

// ResetCode is the pending password-reset slot of a user.
type ResetCode struct {
	Code       string    `bson:"code"`
	ExpiresAt  time.Time `bson:"expiresAt"`
	IsVerified bool      `bson:"isVerified"`
}

// Expired reports whether the code is past its window at t.
func (c *ResetCode) Expired(t time.Time) bool {
	return !t.Before(c.ExpiresAt)
}

// User represents a user in the system
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id,omitempty"`
	Name      string               `bson:"name" json:"name"`
	Email     string               `bson:"email" json:"email"`
	Password  string               `bson:"password" json:"-"`
	IsAdmin   bool                 `bson:"isAdmin" json:"isAdmin"`
	Address   []Address            `bson:"address" json:"address"`
	Cart      Cart                 `bson:"cart" json:"cart"`
	Orders    []primitive.ObjectID `bson:"orders" json:"orders"`
	ResetOtp  *ResetCode           `bson:"resetOtp,omitempty" json:"-"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	ID      primitive.ObjectID `json:"_id"`
	Name    string             `json:"name"`
	Email   string             `json:"email"`
	IsAdmin bool               `json:"isAdmin"`
	Token   string             `json:"token"`
	Message string             `json:"message,omitempty"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ProfileUpdate struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}
