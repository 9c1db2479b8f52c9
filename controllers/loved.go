package controllers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"go-storefront/models"
	"go-storefront/utils"
)

type LovedService interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]string, error)
	Add(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error)
	Remove(ctx context.Context, userID primitive.ObjectID, productID string) ([]string, error)
	Clear(ctx context.Context, userID primitive.ObjectID) error
}

type LovedController struct {
	loved  LovedService
	logger *zap.Logger
}

func NewLovedController(loved LovedService, logger *zap.Logger) *LovedController {
	return &LovedController{loved: loved, logger: logger}
}

func (lc *LovedController) GetLoved(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	items, err := lc.loved.List(r.Context(), user.ID)
	if err != nil {
		respondError(w, lc.logger, "get loved", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.LovedResponse{Message: "Loved items retrieved successfully", LovedItems: items})
}

// AddLoved puts a product in the user's loved set; adding twice is a no-op.
func (lc *LovedController) AddLoved(w http.ResponseWriter, r *http.Request) {
	lc.mutate(w, r, "Added to loved items", lc.loved.Add)
}

func (lc *LovedController) RemoveLoved(w http.ResponseWriter, r *http.Request) {
	lc.mutate(w, r, "Removed from loved items", lc.loved.Remove)
}

func (lc *LovedController) ClearLoved(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	if err := lc.loved.Clear(r.Context(), user.ID); err != nil {
		respondError(w, lc.logger, "clear loved", err)
		return
	}
	utils.WriteMessage(w, http.StatusOK, "Loved items cleared successfully")
}

func (lc *LovedController) mutate(w http.ResponseWriter, r *http.Request, msg string,
	apply func(context.Context, primitive.ObjectID, string) ([]string, error)) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.LovedRequest
	if err := utils.DecodeAndValidate(r.Body, &req); err != nil {
		respondError(w, lc.logger, "loved", err)
		return
	}

	items, err := apply(r.Context(), user.ID, req.ProductID)
	if err != nil {
		respondError(w, lc.logger, "loved", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, models.LovedResponse{Message: msg, LovedItems: items})
}
