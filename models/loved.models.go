package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Loved is the per-user set of favourite product ids.
type Loved struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	UserID   primitive.ObjectID `bson:"userId" json:"userId"`
	Products []string           `bson:"products" json:"products"`
}

type LovedRequest struct {
	ProductID string `json:"productId" validate:"required"`
}

type LovedResponse struct {
	Message    string   `json:"message,omitempty"`
	LovedItems []string `json:"lovedItems"`
}
