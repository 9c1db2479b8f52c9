package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry.
type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name        string             `bson:"name" json:"name"`
	Images      []string           `bson:"images" json:"images"`
	Brand       string             `bson:"brand,omitempty" json:"brand,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	OldPrice    float64            `bson:"oldPrice,omitempty" json:"oldPrice,omitempty"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Category    primitive.ObjectID `bson:"category" json:"category"`
	InStock     bool               `bson:"inStock" json:"inStock"`
	Trends      bool               `bson:"trends" json:"trends"`
	Sale        bool               `bson:"sale" json:"sale"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
}

// Available reports whether count units can be put in a cart.
func (p Product) Available(count int) bool {
	return p.InStock && p.Quantity >= count
}

type Category struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Name   string             `bson:"name" json:"name"`
	Images []string           `bson:"images" json:"images"`
}

// ProductInput carries the form fields of a product creation request.
type ProductInput struct {
	Name        string  `json:"name" validate:"required"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price" validate:"gte=0"`
	OldPrice    float64 `json:"oldPrice" validate:"gte=0"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	Category    string  `json:"category" validate:"required"`
	InStock     bool    `json:"inStock"`
	Trends      bool    `json:"trends"`
	Sale        bool    `json:"sale"`
	Description string  `json:"description"`
}

type CategoryInput struct {
	Name string `json:"name" validate:"required"`
}
