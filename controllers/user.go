package controllers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"go-marketplace/models"
	"go-marketplace/stores"
	"go-marketplace/utils"

	"golang.org/x/crypto/bcrypt"
)

// UserController handles user-related requests
type UserController struct {
	Store        *stores.UserStore
	EmailService *utils.EmailService
}

// NewUserController creates a new UserController with EmailService
func NewUserController(store *stores.UserStore, emailService *utils.EmailService) *UserController {
	return &UserController{
		Store:        store,
		EmailService: emailService,
	}
}

type registerRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Role != models.RoleCustomer && req.Role != models.RoleSeller {
		http.Error(w, "Role must be Customer or Seller", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	taken, err := uc.Store.EmailTaken(ctx, req.Email)
	if err != nil {
		writeError(w, err)
		return
	}
	if taken {
		http.Error(w, "User already exists", http.StatusBadRequest)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:    req.Email,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	switch req.Role {
	case models.RoleCustomer:
		user.Customer = &models.CustomerProfile{}
	case models.RoleSeller:
		user.Seller = &models.SellerProfile{}
	}

	verificationToken, err := utils.GenerateJWT("", user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating verification token", http.StatusInternalServerError)
		return
	}
	user.VerificationToken = verificationToken

	created, err := uc.Store.Create(ctx, &user)
	if err != nil {
		writeError(w, err)
		return
	}

	go func(email, token string) {
		if err := uc.EmailService.SendVerificationEmail(email, token); err != nil {
			log.Printf("Failed to send verification email to %s: %v", email, err)
		}
	}(created.Email, verificationToken)

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User registered. Please verify your email."})
}

// Login handles user login and issues a JWT
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := uc.Store.GetByEmail(ctx, req.Email)
	if err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		http.Error(w, "Error generating token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// VerifyEmail marks the user behind the token as verified
func (uc *UserController) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing verification token", http.StatusBadRequest)
		return
	}

	claims, err := utils.ParseJWT(tokenStr)
	if err != nil {
		http.Error(w, "Invalid verification token", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	if err := uc.Store.MarkVerified(ctx, claims.Email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Email verified"})
}

// GetProfile returns the authenticated user
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
	callerID, _, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := uc.Store.GetByID(ctx, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UpdateProfile replaces the caller's role-specific profile
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	callerID, role, ok := caller(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, err := uc.Store.GetByID(ctx, callerID)
	if err != nil {
		writeError(w, err)
		return
	}

	switch role {
	case models.RoleCustomer:
		var profile models.CustomerProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			http.Error(w, "Invalid input", http.StatusBadRequest)
			return
		}
		user.Customer = &profile
	case models.RoleSeller:
		var profile models.SellerProfile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			http.Error(w, "Invalid input", http.StatusBadRequest)
			return
		}
		// Category assignment stays with admins.
		if user.Seller != nil {
			profile.ItemCategories = user.Seller.ItemCategories
		}
		user.Seller = &profile
	default:
		http.Error(w, "Admins have no profile to update", http.StatusBadRequest)
		return
	}

	if err := uc.Store.UpdateProfile(ctx, user); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
