package controllers

import (
	"net/http"

	"go-storefront/pricing"
	"go-storefront/utils"
)

// DeliveryController publishes the delivery fee table used by checkout.
type DeliveryController struct {
	rules pricing.Rules
}

func NewDeliveryController(rules pricing.Rules) *DeliveryController {
	return &DeliveryController{rules: rules}
}

func (dc *DeliveryController) GetOptions(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, dc.rules)
}
