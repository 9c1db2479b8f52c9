package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

func (s *MongoStore) CreateOrder(ctx context.Context, order *models.Order) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	order.ID = primitive.NewObjectID()
	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		order.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

func (s *MongoStore) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.findOrder(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindOrderByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	return s.findOrder(ctx, bson.M{"paymentData.paymentIntentId": intentID})
}

func (s *MongoStore) findOrder(ctx context.Context, filter bson.M) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var o models.Order
	if err := s.orders.FindOne(ctx, filter).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// ListOrdersByUser returns the user's orders, newest first.
func (s *MongoStore) ListOrdersByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Order](ctx, s.orders, bson.M{"user": userID}, opts)
}

func (s *MongoStore) DeleteOrdersByUser(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.orders.DeleteMany(ctx, bson.M{"user": userID})
	if err != nil {
		return 0, translate(err)
	}
	return res.DeletedCount, nil
}

func (s *MongoStore) MarkOrderPaid(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	return s.updateOrder(ctx, id, bson.M{
		"isPaid":        true,
		"paidAt":        at,
		"paymentStatus": models.PaymentStatusPaid,
		"updatedAt":     at,
	})
}

func (s *MongoStore) MarkOrderDelivered(ctx context.Context, id primitive.ObjectID, at time.Time) (*models.Order, error) {
	return s.updateOrder(ctx, id, bson.M{
		"isDelivered": true,
		"deliveredAt": at,
		"updatedAt":   at,
	})
}

func (s *MongoStore) updateOrder(ctx context.Context, id primitive.ObjectID, set bson.M) (*models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var o models.Order
	if err := s.orders.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&o); err != nil {
		return nil, translate(err)
	}
	return &o, nil
}
