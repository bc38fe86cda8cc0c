package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-marketplace/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartController handles cart-related requests
type CartController struct {
	Service *services.CartService
}

// NewCartController creates a new CartController
func NewCartController(service *services.CartService) *CartController {
	return &CartController{Service: service}
}

type cartLineRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// GetCart retrieves the customer's cart, reconciled against the catalog
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cart, err := cc.Service.Get(ctx, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddToCart adds an item to the customer's cart
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := cc.Service.AddItem(ctx, callerID, itemID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item added to cart"})
}

// UpdateCartItem replaces the quantity of an item already in the cart
func (cc *CartController) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req cartLineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := cc.Service.UpdateItem(ctx, callerID, itemID, req.Quantity); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart item updated"})
}

// RemoveFromCart removes an item from the customer's cart
func (cc *CartController) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	itemID, err := primitive.ObjectIDFromHex(params["item_id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := cc.Service.RemoveItem(ctx, callerID, itemID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item removed from cart"})
}

// ClearCart empties the customer's cart
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := cc.Service.Clear(ctx, callerID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Cart cleared"})
}
