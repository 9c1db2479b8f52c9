package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"go-storefront/models"
	"go-storefront/store"
)

// AccountService manages the profile, saved addresses and account deletion.
type AccountService struct {
	users  UserRepository
	loved  LovedRepository
	orders OrderRepository
}

func NewAccountService(users UserRepository, loved LovedRepository, orders OrderRepository) *AccountService {
	return &AccountService{users: users, loved: loved, orders: orders}
}

// UpdateProfile changes name and email. The email must not belong to another user.
func (s *AccountService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error) {
	email := normalizeEmail(upd.Email)

	other, err := s.users.GetUserByEmail(ctx, email)
	switch {
	case err == nil && other.ID != userID:
		return nil, ErrEmailTaken
	case err != nil && !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("get user: %w", err)
	}

	if err := s.users.UpdateProfile(ctx, userID, strings.TrimSpace(upd.Name), email); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.user(ctx, userID)
}

// AddAddress saves a new address under a generated id.
func (s *AccountService) AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) ([]models.Address, error) {
	entry := models.Address{ID: uuid.NewString(), ShippingAddress: addr}
	if err := s.users.AddAddress(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("add address: %w", err)
	}
	return s.Addresses(ctx, userID)
}

func (s *AccountService) Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	user, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Address == nil {
		return []models.Address{}, nil
	}
	return user.Address, nil
}

func (s *AccountService) UpdateAddress(ctx context.Context, userID primitive.ObjectID, addrID string, addr models.ShippingAddress) ([]models.Address, error) {
	if err := s.users.UpdateAddress(ctx, userID, addrID, addr); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("update address: %w", err)
	}
	return s.Addresses(ctx, userID)
}

func (s *AccountService) DeleteAddress(ctx context.Context, userID primitive.ObjectID, addrID string) ([]models.Address, error) {
	if err := s.users.DeleteAddress(ctx, userID, addrID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrAddressNotFound
		}
		return nil, fmt.Errorf("delete address: %w", err)
	}
	return s.Addresses(ctx, userID)
}

// DeleteAccount removes the user together with their loved items and orders.
func (s *AccountService) DeleteAccount(ctx context.Context, userID primitive.ObjectID) error {
	if err := s.loved.DeleteLoved(ctx, userID); err != nil {
		return fmt.Errorf("delete loved: %w", err)
	}
	if _, err := s.orders.DeleteOrdersByUser(ctx, userID); err != nil {
		return fmt.Errorf("delete orders: %w", err)
	}
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (s *AccountService) user(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}
