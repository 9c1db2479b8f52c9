package controllers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/utils"
)

type PaymentService interface {
	CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error)
}

type PaymentController struct {
	payments PaymentService
	logger   *zap.Logger
}

func NewPaymentController(payments PaymentService, logger *zap.Logger) *PaymentController {
	return &PaymentController{payments: payments, logger: logger}
}

// CreatePaymentIntent opens a card payment intent for the amount in minor units.
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(w, r); !ok {
		return
	}
	var req models.PaymentIntentRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, pc.logger, "create payment intent", err)
		return
	}

	resp, err := pc.payments.CreateIntent(r.Context(), req)
	if err != nil {
		respondError(w, pc.logger, "create payment intent", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
