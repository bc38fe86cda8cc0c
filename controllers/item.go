package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"go-marketplace/models"
	"go-marketplace/services"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ItemController handles seller catalog requests
type ItemController struct {
	Service *services.ItemService
}

// NewItemController creates a new ItemController
func NewItemController(service *services.ItemService) *ItemController {
	return &ItemController{Service: service}
}

// GetItems lists catalog items, filtered by seller, category or availability
func (ic *ItemController) GetItems(w http.ResponseWriter, r *http.Request) {
	var q models.ItemQuery

	query := r.URL.Query()
	if v := query.Get("seller_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			http.Error(w, "Invalid seller ID", http.StatusBadRequest)
			return
		}
		q.SellerID = id
	}
	if v := query.Get("category_id"); v != "" {
		id, err := primitive.ObjectIDFromHex(v)
		if err != nil {
			http.Error(w, "Invalid category ID", http.StatusBadRequest)
			return
		}
		q.CategoryID = id
	}
	if v := query.Get("is_available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			http.Error(w, "Invalid availability filter", http.StatusBadRequest)
			return
		}
		q.IsAvailable = &available
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	items, err := ic.Service.ListItems(ctx, q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// GetItemByID retrieves a single item by ID
func (ic *ItemController) GetItemByID(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	item, err := ic.Service.GetItem(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// CreateItem adds a new item to the caller's catalog
func (ic *ItemController) CreateItem(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := ic.Service.CreateItem(ctx, &item, callerID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// UpdateItem replaces an item's fields
func (ic *ItemController) UpdateItem(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var item models.Item
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	item.ID = id

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	updated, err := ic.Service.UpdateItem(ctx, &item, callerID, role)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteItem removes an item from the caller's catalog
func (ic *ItemController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	params := mux.Vars(r)
	id, err := primitive.ObjectIDFromHex(params["id"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := ic.Service.DeleteItem(ctx, id, callerID, role); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}
