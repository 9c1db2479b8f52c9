package controllers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"go-storefront/middleware"
	"go-storefront/models"
	"go-storefront/services"
	"go-storefront/utils"
)

type errorMapping struct {
	err    error
	status int
	msg    string
}

var errorMappings = []errorMapping{
	{services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
	{services.ErrEmailTaken, http.StatusConflict, "User already exists"},
	{services.ErrPaymentAlreadyUsed, http.StatusConflict, "Payment already used for another order"},

	{services.ErrUserNotFound, http.StatusNotFound, "User not found"},
	{services.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{services.ErrCategoryNotFound, http.StatusNotFound, "Category not found"},
	{services.ErrNotInCart, http.StatusNotFound, "Item not in cart"},
	{services.ErrAddressNotFound, http.StatusNotFound, "Address not found"},
	{services.ErrLovedNotFound, http.StatusNotFound, "No loved items found"},
	{services.ErrOrderNotFound, http.StatusNotFound, "Order not found"},

	{services.ErrInvalidID, http.StatusBadRequest, "Invalid id"},
	{services.ErrOutOfStock, http.StatusBadRequest, "Product is out of stock"},
	{services.ErrOTPInvalid, http.StatusBadRequest, "Invalid or expired OTP"},
	{services.ErrOTPNotVerified, http.StatusBadRequest, "OTP not verified or expired"},
	{services.ErrPaymentIntentRequired, http.StatusBadRequest, "Payment intent ID required for card payment"},
	{services.ErrPaymentNotSucceeded, http.StatusBadRequest, "Payment not successful"},
	{services.ErrAmountMismatch, http.StatusBadRequest, "Paid amount does not match order total"},
	{utils.ErrUnsupportedImage, http.StatusBadRequest, "Only png, jpg and jpeg images are allowed"},

	{services.ErrGatewayUnavailable, http.StatusServiceUnavailable, "Payments are not available"},
}

// respondError writes the status and message for err. Unknown errors are
// logged and reported as 500.
func respondError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	var verr *utils.ValidationError
	if errors.As(err, &verr) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.ErrorBody{Message: verr.Message, Errors: verr.Fields})
		return
	}
	var stock *services.StockError
	if errors.As(err, &stock) {
		utils.WriteError(w, http.StatusBadRequest, stock.Error())
		return
	}
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			utils.WriteError(w, m.status, m.msg)
			return
		}
	}

	logger.Error(op, zap.Error(err))
	utils.WriteError(w, http.StatusInternalServerError, "Server error")
}

// currentUser returns the authenticated user or writes 401.
func currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authorized")
	}
	return user, ok
}
