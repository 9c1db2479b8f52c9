package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"go-storefront/models"
)

func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	user.ID = primitive.NewObjectID()
	if _, err := s.users.InsertOne(ctx, user); err != nil {
		user.ID = primitive.NilObjectID
		return translate(err)
	}
	return nil
}

func (s *MongoStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M, opts ...*options.FindOneOptions) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var user models.User
	if err := s.users.FindOne(ctx, filter, opts...).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *MongoStore) updateUser(ctx context.Context, filter bson.M, update bson.M) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if set, ok := update["$set"].(bson.M); ok {
		set["updatedAt"] = time.Now()
	} else {
		update["$set"] = bson.M{"updatedAt": time.Now()}
	}
	return matched(s.users.UpdateOne(ctx, filter, update))
}

func (s *MongoStore) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, email string) error {
	return s.updateUser(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"name": name, "email": email}})
}

func (s *MongoStore) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return s.updateUser(ctx, bson.M{"_id": id}, bson.M{
		"$set":   bson.M{"password": hash},
		"$unset": bson.M{"resetOtp": ""},
	})
}

func (s *MongoStore) SetResetCode(ctx context.Context, id primitive.ObjectID, code *models.ResetCode) error {
	return s.updateUser(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"resetOtp": code}})
}

func (s *MongoStore) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := s.users.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translate(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.Address) error {
	return s.updateUser(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"address": addr}})
}

func (s *MongoStore) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addrID string, addr models.ShippingAddress) error {
	return s.updateUser(ctx,
		bson.M{"_id": userID, "address._id": addrID},
		bson.M{"$set": bson.M{"address.$": models.Address{ID: addrID, ShippingAddress: addr}}},
	)
}

func (s *MongoStore) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addrID string) error {
	return s.updateUser(ctx,
		bson.M{"_id": userID, "address._id": addrID},
		bson.M{"$pull": bson.M{"address": bson.M{"_id": addrID}}},
	)
}

func (s *MongoStore) PushOrder(ctx context.Context, userID, orderID primitive.ObjectID) error {
	return s.updateUser(ctx, bson.M{"_id": userID}, bson.M{"$push": bson.M{"orders": orderID}})
}

func (s *MongoStore) ClearOrderRefs(ctx context.Context, userID primitive.ObjectID) error {
	return s.updateUser(ctx, bson.M{"_id": userID}, bson.M{"$set": bson.M{"orders": bson.A{}}})
}
