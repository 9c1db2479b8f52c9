package services

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/store"
)

// LovedService keeps the per-user set of loved product ids.
type LovedService struct {
	loved LovedRepository
}

func NewLovedService(loved LovedRepository) *LovedService {
	return &LovedService{loved: loved}
}

func (s *LovedService) List(ctx context.Context, userID primitive.ObjectID) ([]string, error) {
	items, err := s.loved.GetLoved(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("get loved: %w", err)
	}
	return nonNil(items), nil
}

// Add inserts productID; adding an id that is already present is a no-op.
func (s *LovedService) Add(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	items, err := s.loved.AddLoved(ctx, userID, productID)
	if err != nil {
		return nil, fmt.Errorf("add loved: %w", err)
	}
	return nonNil(items), nil
}

// Remove drops productID. Users without a loved list get ErrLovedNotFound.
func (s *LovedService) Remove(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error) {
	items, err := s.loved.RemoveLoved(ctx, userID, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrLovedNotFound
		}
		return nil, fmt.Errorf("remove loved: %w", err)
	}
	return nonNil(items), nil
}

func (s *LovedService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.loved.DeleteLoved(ctx, userID); err != nil {
		return fmt.Errorf("clear loved: %w", err)
	}
	return nil
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
