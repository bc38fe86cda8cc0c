// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderController handles order-related requests
type OrderController struct {
	Service *services.OrderService
}

// NewOrderController creates a new OrderController
func NewOrderController(service *services.OrderService) *OrderController {
	return &OrderController{Service: service}
}

// PlaceOrder converts the customer's cart into a new order
func (oc *OrderController) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := oc.Service.PlaceOrder(ctx, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

// GetOrders retrieves the caller's orders, optionally filtered by status
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	status := models.OrderStatus(r.URL.Query().Get("status"))

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Service.ListOrders(ctx, callerID, role, status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder retrieves one order owned by the caller
func (oc *OrderController) GetOrder(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.GetOrder(ctx, orderID, callerID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// CancelOrder cancels an order and restores its stock
func (oc *OrderController) CancelOrder(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := oc.Service.CancelOrder(ctx, orderID, callerID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// UpdateOrder moves an order to a new status (seller only)
func (oc *OrderController) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	order, err := oc.Service.UpdateOrder(ctx, orderID, req.Status, callerID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
