package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

func (s *MongoStore) GetLoved(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var doc models.Loved
	if err := s.loved.FindOne(ctx, bson.M{"userId": userID}).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.Products, nil
}

// AddLoved adds productID to the user's set, creating the document on first use.
func (s *MongoStore) AddLoved(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	return s.updateLoved(ctx, userID, bson.M{"$addToSet": bson.M{"products": productID}}, true)
}

func (s *MongoStore) RemoveLoved(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	return s.updateLoved(ctx, userID, bson.M{"$pull": bson.M{"products": productID}}, false)
}

func (s *MongoStore) updateLoved(ctx context.Context, userID primitive.ObjectID, update bson.M, upsert bool) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetUpsert(upsert).SetReturnDocument(options.After)
	var doc models.Loved
	if err := s.loved.FindOneAndUpdate(ctx, bson.M{"userId": userID}, update, opts).Decode(&doc); err != nil {
		return nil, translate(err)
	}
	return doc.Products, nil
}

func (s *MongoStore) DeleteLoved(ctx context.Context, userID primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.loved.DeleteOne(ctx, bson.M{"userId": userID})
	return translate(err)
}
