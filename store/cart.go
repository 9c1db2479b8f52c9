package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

func (s *MongoStore) GetCart(ctx context.Context, userID primitive.ObjectID) (models.Cart, error) {
	user, err := s.findUser(ctx, bson.M{"_id": userID}, options.FindOne().SetProjection(bson.M{"cart": 1}))
	if err != nil {
		return models.Cart{}, err
	}
	return user.Cart, nil
}

// AddCartCount increments the line for productID, appending it when absent.
// Each step is a single-document update; the push is guarded so that a
// concurrent add cannot create a second line for the same product.
func (s *MongoStore) AddCartCount(ctx context.Context, userID, productID primitive.ObjectID, delta int) error {
	inc := func() error {
		return s.updateUser(ctx,
			bson.M{"_id": userID, "cart.items.product": productID},
			bson.M{"$inc": bson.M{"cart.items.$.count": delta}},
		)
	}

	err := inc()
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	err = s.updateUser(ctx,
		bson.M{"_id": userID, "cart.items.product": bson.M{"$ne": productID}},
		bson.M{"$push": bson.M{"cart.items": models.CartItem{Product: productID, Count: delta}}},
	)
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	// Either the user is gone or another request pushed the line first.
	return inc()
}

func (s *MongoStore) SetCartCount(ctx context.Context, userID, productID primitive.ObjectID, count int) error {
	return s.updateUser(ctx,
		bson.M{"_id": userID, "cart.items.product": productID},
		bson.M{"$set": bson.M{"cart.items.$.count": count}},
	)
}

func (s *MongoStore) RemoveCartItem(ctx context.Context, userID, productID primitive.ObjectID) error {
	return s.updateUser(ctx,
		bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"cart.items": bson.M{"product": productID}}},
	)
}

func (s *MongoStore) ClearCart(ctx context.Context, userID primitive.ObjectID) error {
	return s.updateUser(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"cart.items": bson.A{}}})
}
