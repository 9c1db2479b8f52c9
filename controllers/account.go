package controllers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/utils"
)

type AccountService interface {
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, upd models.ProfileUpdate) (*models.User, error)
	AddAddress(ctx context.Context, userID primitive.ObjectID, addr models.ShippingAddress) ([]models.Address, error)
	Addresses(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error)
	UpdateAddress(ctx context.Context, userID primitive.ObjectID, addrID string, addr models.ShippingAddress) ([]models.Address, error)
	DeleteAddress(ctx context.Context, userID primitive.ObjectID, addrID string) ([]models.Address, error)
	DeleteAccount(ctx context.Context, userID primitive.ObjectID) error
}

// TokenIssuer re-signs the session after a profile change.
type TokenIssuer interface {
	Generate(userID string) (string, error)
}

// AccountController serves the signed-in user's profile and address book.
type AccountController struct {
	account AccountService
	tokens  TokenIssuer
	logger  *zap.Logger
}

func NewAccountController(account AccountService, tokens TokenIssuer, logger *zap.Logger) *AccountController {
	return &AccountController{account: account, tokens: tokens, logger: logger}
}

type addressResponse struct {
	Message string           `json:"message"`
	Address []models.Address `json:"address"`
}

// GetProfile retrieves the authenticated user's profile
func (ac *AccountController) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (ac *AccountController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ProfileUpdate
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, ac.logger, "update profile", err)
		return
	}

	updated, err := ac.account.UpdateProfile(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, ac.logger, "update profile", err)
		return
	}
	token, err := ac.tokens.Generate(updated.ID.Hex())
	if err != nil {
		respondError(w, ac.logger, "update profile", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.AuthResponse{
		ID:      updated.ID,
		Name:    updated.Name,
		Email:   updated.Email,
		IsAdmin: updated.IsAdmin,
		Token:   token,
		Message: "Profile updated successfully",
	})
}

// DeleteAccount removes the user together with their loved items and orders.
func (ac *AccountController) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := ac.account.DeleteAccount(r.Context(), user.ID); err != nil {
		respondError(w, ac.logger, "delete account", err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Account deleted successfully")
}

func (ac *AccountController) AddAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ShippingAddress
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, ac.logger, "add address", err)
		return
	}

	addrs, err := ac.account.AddAddress(r.Context(), user.ID, req)
	if err != nil {
		respondError(w, ac.logger, "add address", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addressResponse{Message: "Address added successfully", Address: addrs})
}

func (ac *AccountController) GetAddresses(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	addrs, err := ac.account.Addresses(r.Context(), user.ID)
	if err != nil {
		respondError(w, ac.logger, "get addresses", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addressResponse{Message: "Addresses retrieved successfully", Address: addrs})
}

func (ac *AccountController) UpdateAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.ShippingAddress
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, ac.logger, "update address", err)
		return
	}

	addrs, err := ac.account.UpdateAddress(r.Context(), user.ID, mux.Vars(r)["id"], req)
	if err != nil {
		respondError(w, ac.logger, "update address", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addressResponse{Message: "Address updated successfully", Address: addrs})
}

func (ac *AccountController) DeleteAddress(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	addrs, err := ac.account.DeleteAddress(r.Context(), user.ID, mux.Vars(r)["id"])
	if err != nil {
		respondError(w, ac.logger, "delete address", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, addressResponse{Message: "Address deleted successfully", Address: addrs})
}
