package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"go-storefront/models"
	"go-storefront/store"
)

const resetCodeTTL = 10 * time.Minute

// AuthService handles registration, login and the OTP password reset.
type AuthService struct {
	users    UserRepository
	tokens   TokenIssuer
	notifier Notifier

	now     func() time.Time
	newCode func() (string, error)
}

func NewAuthService(users UserRepository, tokens TokenIssuer, notifier Notifier) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		now:      time.Now,
		newCode:  randomCode,
	}
}

// Register creates a user and returns a session for them.
func (s *AuthService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Password:  string(hash),
		Address:   []models.Address{},
		Cart:      models.Cart{Items: []models.CartItem{}},
		Orders:    []primitive.ObjectID{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return s.session(user, "User registered successfully")
}

// Login checks credentials and returns a session.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.session(user, "")
}

func (s *AuthService) session(user *models.User, msg string) (*models.AuthResponse, error) {
	token, err := s.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &models.AuthResponse{
		ID:      user.ID,
		Name:    user.Name,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		Token:   token,
		Message: msg,
	}, nil
}

// RequestPasswordReset stores a fresh code for the user and emails it.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	code, err := s.newCode()
	if err != nil {
		return fmt.Errorf("generate code: %w", err)
	}
	reset := &models.ResetCode{Code: code, ExpiresAt: s.now().Add(resetCodeTTL)}
	if err := s.users.SetResetCode(ctx, user.ID, reset); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	if err := s.notifier.SendPasswordResetCode(ctx, user.Email, code); err != nil {
		return fmt.Errorf("send reset code: %w", err)
	}
	return nil
}

// VerifyResetCode marks the pending code verified and extends its window.
// The code stays valid until the password is reset or the window closes.
func (s *AuthService) VerifyResetCode(ctx context.Context, email, code string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	now := s.now()
	otp := user.ResetOtp
	if otp == nil || otp.Expired(now) || subtle.ConstantTimeCompare([]byte(otp.Code), []byte(code)) != 1 {
		return ErrOTPInvalid
	}

	verified := &models.ResetCode{Code: otp.Code, ExpiresAt: now.Add(resetCodeTTL), IsVerified: true}
	if err := s.users.SetResetCode(ctx, user.ID, verified); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}
	return nil
}

// ResetPassword replaces the password of a user holding a verified, unexpired code.
func (s *AuthService) ResetPassword(ctx context.Context, email, newPassword string) error {
	user, err := s.userByEmail(ctx, email)
	if err != nil {
		return err
	}

	otp := user.ResetOtp
	if otp == nil || !otp.IsVerified || otp.Expired(s.now()) {
		return ErrOTPNotVerified
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *AuthService) userByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// randomCode returns a six digit numeric code.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
