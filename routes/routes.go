// routes/routes.go
package routes

import (
	"go-marketplace/controllers"
	"go-marketplace/middleware"
	"go-marketplace/models"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(
	router *mux.Router,
	userController *controllers.UserController,
	categoryController *controllers.CategoryController,
	itemController *controllers.ItemController,
	cartController *controllers.CartController,
	orderController *controllers.OrderController,
) {
	// Public routes
	router.HandleFunc("/register", userController.Register).Methods("POST")
	router.HandleFunc("/login", userController.Login).Methods("POST")
	router.HandleFunc("/verify", userController.VerifyEmail).Methods("GET")

	// Public catalog routes
	router.HandleFunc("/categories", categoryController.GetCategories).Methods("GET")
	router.HandleFunc("/categories/{id}", categoryController.GetCategoryByID).Methods("GET")
	router.HandleFunc("/items", itemController.GetItems).Methods("GET")
	router.HandleFunc("/items/{id}", itemController.GetItemByID).Methods("GET")

	// Profile routes
	profile := router.PathPrefix("/profile").Subrouter()
	profile.Use(middleware.AuthMiddleware)
	profile.HandleFunc("", userController.GetProfile).Methods("GET")
	profile.HandleFunc("", userController.UpdateProfile).Methods("PUT")

	// Admin category routes
	admin := router.PathPrefix("/categories").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.RequireRoles(models.RoleAdmin))
	admin.HandleFunc("", categoryController.CreateCategory).Methods("POST")
	admin.HandleFunc("/{id}", categoryController.UpdateCategory).Methods("PUT")
	admin.HandleFunc("/{id}", categoryController.DeleteCategory).Methods("DELETE")

	// Seller catalog routes
	sellerItems := router.PathPrefix("/items").Subrouter()
	sellerItems.Use(middleware.AuthMiddleware)
	sellerItems.Use(middleware.RequireRoles(models.RoleSeller, models.RoleAdmin))
	sellerItems.HandleFunc("", itemController.CreateItem).Methods("POST")
	sellerItems.HandleFunc("/{id}", itemController.UpdateItem).Methods("PUT")
	sellerItems.HandleFunc("/{id}", itemController.DeleteItem).Methods("DELETE")

	// Cart routes (customer only)
	cart := router.PathPrefix("/cart").Subrouter()
	cart.Use(middleware.AuthMiddleware)
	cart.Use(middleware.RequireRoles(models.RoleCustomer))
	cart.HandleFunc("", cartController.GetCart).Methods("GET")
	cart.HandleFunc("", cartController.AddToCart).Methods("POST")
	cart.HandleFunc("", cartController.UpdateCartItem).Methods("PUT")
	cart.HandleFunc("", cartController.ClearCart).Methods("DELETE")
	cart.HandleFunc("/{item_id}", cartController.RemoveFromCart).Methods("DELETE")

	// Order routes
	orders := router.PathPrefix("/orders").Subrouter()
	orders.Use(middleware.AuthMiddleware)
	orders.Use(middleware.RequireRoles(models.RoleCustomer, models.RoleSeller))
	orders.HandleFunc("", orderController.GetOrders).Methods("GET")
	orders.HandleFunc("/{id}", orderController.GetOrder).Methods("GET")
	orders.HandleFunc("/{id}", orderController.UpdateOrder).Methods("PUT")
	orders.HandleFunc("/{id}/cancel", orderController.CancelOrder).Methods("POST")

	placeOrder := router.PathPrefix("/orders").Subrouter()
	placeOrder.Use(middleware.AuthMiddleware)
	placeOrder.Use(middleware.RequireRoles(models.RoleCustomer))
	placeOrder.HandleFunc("", orderController.PlaceOrder).Methods("POST")
}
