package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
)

func (s *MongoStore) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.Product
	if err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *MongoStore) GetProductsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Product, error) {
	if len(ids) == 0 {
		return []models.Product{}, nil
	}
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return findAll[models.Product](ctx, s.products, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return findAll[models.Product](ctx, s.products, bson.M{})
}

func (s *MongoStore) CreateProduct(ctx context.Context, p *models.Product) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p.ID = primitive.NewObjectID()
	_, err := s.products.InsertOne(ctx, p)
	return translate(err)
}

func (s *MongoStore) GetCategory(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var c models.Category
	if err := s.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return nil, translate(err)
	}
	return &c, nil
}

func (s *MongoStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	return findAll[models.Category](ctx, s.categories, bson.M{})
}

func (s *MongoStore) CreateCategory(ctx context.Context, c *models.Category) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c.ID = primitive.NewObjectID()
	_, err := s.categories.InsertOne(ctx, c)
	return translate(err)
}
