// Package client is the storefront's API client and client-side application state.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-storefront/models"
	"go-storefront/pricing"
	"go-storefront/utils"
)

// ErrNotAuthenticated is returned by calls that need a session when none is set.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError is a non-2xx answer from the storefront API.
type APIError struct {
	Status  int
	Message string
	Fields  []utils.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("storefront api: %d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an *APIError with the given status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// SetToken sets the bearer token sent on protected calls. Empty clears it.
func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Token() string { return c.token }

func (c *Client) do(ctx context.Context, method, path string, auth bool, in, out any) error {
	if auth && c.token == "" {
		return ErrNotAuthenticated
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var eb utils.ErrorBody
		if json.NewDecoder(resp.Body).Decode(&eb) == nil && eb.Message != "" {
			apiErr.Message = eb.Message
			apiErr.Fields = eb.Errors
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// Identity

func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", false, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/user/login", false, models.LoginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/user/forgotPassword", false, models.ForgotPasswordRequest{Email: email}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) error {
	return c.do(ctx, http.MethodPost, "/user/verify-otp", false, models.VerifyOTPRequest{Email: email, OTP: otp}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	return c.do(ctx, http.MethodPost, "/user/resetPassword", false, models.ResetPasswordRequest{Email: email, NewPassword: newPassword}, nil)
}

// Account

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/user/profile", true, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := c.do(ctx, http.MethodPut, "/user/profile", true, upd, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteAccount(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/delete", true, nil, nil)
}

type addressesResponse struct {
	Address []models.Address `json:"address"`
}

func (c *Client) Addresses(ctx context.Context) ([]models.Address, error) {
	return c.addresses(ctx, http.MethodGet, "/user/addresses", nil)
}

func (c *Client) AddAddress(ctx context.Context, addr models.ShippingAddress) ([]models.Address, error) {
	return c.addresses(ctx, http.MethodPost, "/user/address", addr)
}

func (c *Client) UpdateAddress(ctx context.Context, id string, addr models.ShippingAddress) ([]models.Address, error) {
	return c.addresses(ctx, http.MethodPut, "/user/address/"+url.PathEscape(id), addr)
}

func (c *Client) DeleteAddress(ctx context.Context, id string) ([]models.Address, error) {
	return c.addresses(ctx, http.MethodDelete, "/user/address/"+url.PathEscape(id), nil)
}

func (c *Client) addresses(ctx context.Context, method, path string, in any) ([]models.Address, error) {
	var resp addressesResponse
	if err := c.do(ctx, method, path, true, in, &resp); err != nil {
		return nil, err
	}
	return resp.Address, nil
}

// Cart

func (c *Client) Cart(ctx context.Context) (*models.CartView, error) {
	return c.cart(ctx, http.MethodGet, "/cart", nil)
}

func (c *Client) AddToCart(ctx context.Context, productID string, count int) (*models.CartView, error) {
	return c.cart(ctx, http.MethodPost, "/cart", models.AddCartItemRequest{ProductID: productID, Count: count})
}

// UpdateCartItem overwrites a line's count; zero removes the line.
func (c *Client) UpdateCartItem(ctx context.Context, productID string, count int) (*models.CartView, error) {
	return c.cart(ctx, http.MethodPut, "/cart", models.UpdateCartItemRequest{ProductID: productID, Count: &count})
}

func (c *Client) SetCartQuantity(ctx context.Context, productID string, count int) (*models.CartView, error) {
	return c.cart(ctx, http.MethodPatch, "/cart/"+url.PathEscape(productID), models.SetQuantityRequest{Count: count})
}

func (c *Client) RemoveFromCart(ctx context.Context, productID string) (*models.CartView, error) {
	return c.cart(ctx, http.MethodDelete, "/cart/"+url.PathEscape(productID), nil)
}

func (c *Client) ClearCart(ctx context.Context) (*models.CartView, error) {
	return c.cart(ctx, http.MethodDelete, "/cart", nil)
}

func (c *Client) cart(ctx context.Context, method, path string, in any) (*models.CartView, error) {
	var view models.CartView
	if err := c.do(ctx, method, path, true, in, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Loved items

func (c *Client) Loved(ctx context.Context) ([]string, error) {
	return c.loved(ctx, http.MethodGet, "/user/loved", nil)
}

func (c *Client) AddLoved(ctx context.Context, productID string) ([]string, error) {
	return c.loved(ctx, http.MethodPost, "/user/loved", models.LovedRequest{ProductID: productID})
}

func (c *Client) RemoveLoved(ctx context.Context, productID string) ([]string, error) {
	return c.loved(ctx, http.MethodPost, "/user/remove", models.LovedRequest{ProductID: productID})
}

func (c *Client) ClearLoved(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/loved/clear", true, nil, nil)
}

func (c *Client) loved(ctx context.Context, method, path string, in any) ([]string, error) {
	var resp models.LovedResponse
	if err := c.do(ctx, method, path, true, in, &resp); err != nil {
		return nil, err
	}
	if resp.LovedItems == nil {
		resp.LovedItems = []string{}
	}
	return resp.LovedItems, nil
}

// Orders and payments

// CreatePaymentIntent opens a card payment for amount minor units.
func (c *Client) CreatePaymentIntent(ctx context.Context, amount int64, currency string) (*models.PaymentIntentResponse, error) {
	var resp models.PaymentIntentResponse
	req := models.PaymentIntentRequest{Amount: amount, Currency: currency}
	if err := c.do(ctx, http.MethodPost, "/payment/create-order", true, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.Order, error) {
	var resp struct {
		Order *models.Order `json:"order"`
	}
	if err := c.do(ctx, http.MethodPost, "/user/order", true, req, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, errors.New("decode response: missing order")
	}
	return resp.Order, nil
}

func (c *Client) Orders(ctx context.Context) ([]models.Order, error) {
	var resp struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/user/orders", true, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Orders, nil
}

func (c *Client) ClearOrders(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/user/orders/clear", true, nil, &messageResponse{})
}

// Catalog

func (c *Client) Products(ctx context.Context) ([]models.Product, error) {
	var resp struct {
		Respond []models.Product `json:"respond"`
	}
	if err := c.do(ctx, http.MethodGet, "/products/getProducts", false, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Respond, nil
}

func (c *Client) Product(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := c.do(ctx, http.MethodGet, "/products/"+url.PathEscape(id), false, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) Categories(ctx context.Context) ([]models.Category, error) {
	var resp struct {
		Respond []models.Category `json:"respond"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories/getCategories", false, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Respond, nil
}

func (c *Client) DeliveryOptions(ctx context.Context) (pricing.Rules, error) {
	var rules pricing.Rules
	err := c.do(ctx, http.MethodGet, "/delivery/options", false, nil, &rules)
	return rules, err
}
