package services

import (
	"context"
	"fmt"
	"strings"

	"go-storefront/models"
)

// PaymentService opens card payment intents for the client to confirm.
type PaymentService struct {
	gateway  PaymentGateway
	currency string
}

// NewPaymentService uses currency for requests that do not name one.
func NewPaymentService(gateway PaymentGateway, currency string) *PaymentService {
	return &PaymentService{gateway: gateway, currency: strings.ToLower(currency)}
}

func (s *PaymentService) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntentResponse, error) {
	if s.gateway == nil {
		return nil, ErrGatewayUnavailable
	}
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = s.currency
	}
	intent, err := s.gateway.CreateIntent(ctx, req.Amount, currency)
	if err != nil {
		return nil, fmt.Errorf("create intent: %w", err)
	}
	return &models.PaymentIntentResponse{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          req.Amount,
		Currency:        currency,
	}, nil
}
