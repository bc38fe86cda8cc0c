package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go-marketplace/apperr"
	"go-marketplace/middleware"
	"go-marketplace/models"
	"go-marketplace/utils"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// caller extracts the authenticated user's id and role from the request
// context. The services take these as explicit parameters.
func caller(r *http.Request) (primitive.ObjectID, models.Role, bool) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, "", false
	}
	return id, claims.Role, true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps an apperr kind to its HTTP status; anything unclassified
// is a 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		status := appErr.Kind.HTTPStatus()
		if status == http.StatusInternalServerError {
			http.Error(w, "Internal server error", status)
			return
		}
		http.Error(w, appErr.Message, status)
		return
	}
	http.Error(w, "Internal server error", http.StatusInternalServerError)
}
