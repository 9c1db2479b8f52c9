package models

// PaymentIntentRequest asks the gateway for a new intent. Amount is in minor units.
type PaymentIntentRequest struct {
	Amount   int64  `json:"amount" validate:"gte=50"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

// PaymentIntentResponse carries what the client needs to confirm a card payment.
type PaymentIntentResponse struct {
	ClientSecret    string `json:"client_secret"`
	PaymentIntentID string `json:"payment_intent_id"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
}
