// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"pos-console/controllers"
	"pos-console/gateway"
	"pos-console/routes"
	"pos-console/utils"
)

func main() {
	// Load environment variables from .env file
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Proceeding with environment variables.")
	}

	// Set the JWT secret key
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))
	if len(utils.JwtKey) == 0 {
		log.Fatal("JWT_SECRET is not set")
	}

	// Initialize EmailService
	emailService := utils.NewEmailService()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err = client.Disconnect(context.TODO()); err != nil {
			log.Fatal(err)
		}
	}()

	// Client for the upstream POS API
	posAPI := gateway.New(
		os.Getenv("POS_API_URL"),
		os.Getenv("POS_API_EMAIL"),
		os.Getenv("POS_API_PASSWORD"),
	)
	posAPI.SetLogoutHandler(func() {
		log.Println("Upstream POS API session expired, re-authenticating")
	})

	// Initialize controllers
	userController := controllers.NewUserController(client)
	catalogController := controllers.NewCatalogController(posAPI)
	categoryController := controllers.NewCategoryController(posAPI)
	cartController := controllers.NewCartController(client, posAPI, emailService)
	salesController := controllers.NewSalesController(posAPI)
	reportController := controllers.NewReportController(posAPI)

	// Set up the router
	router := mux.NewRouter()
	routes.RegisterRoutes(router, userController, catalogController, categoryController, cartController, salesController, reportController)

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	fmt.Printf("Server is running on port %s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
