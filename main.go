// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"go-marketplace/controllers"
	"go-marketplace/middleware"
	"go-marketplace/routes"
	"go-marketplace/services"
	"go-marketplace/stores"
	"go-marketplace/utils"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Initialize stores
	userStore := stores.NewUserStore(client)
	categoryStore := stores.NewCategoryStore(client)
	itemStore := stores.NewItemStore(client)
	cartStore := stores.NewCartStore(client)
	orderStore := stores.NewOrderStore(client)

	// Initialize services
	cartService := services.NewCartService(cartStore, itemStore)
	itemService := services.NewItemService(itemStore, userStore)
	orderService := services.NewOrderService(orderStore, itemStore, cartStore, userStore, cartService, emailService)

	// Initialize controllers
	userController := controllers.NewUserController(userStore, emailService)
	categoryController := controllers.NewCategoryController(categoryStore)
	itemController := controllers.NewItemController(itemService)
	cartController := controllers.NewCartController(cartService)
	orderController := controllers.NewOrderController(orderService)

	// Set up the router
	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)

	// Register routes
	routes.RegisterRoutes(router, userController, categoryController, itemController, cartController, orderController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
