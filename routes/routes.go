// routes/routes.go
package routes

import (
	"github.com/gorilla/mux"

	"pos-console/controllers"
	"pos-console/middleware"
)

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, userController *controllers.UserController, catalogController *controllers.CatalogController, categoryController *controllers.CategoryController, cartController *controllers.CartController, salesController *controllers.SalesController, reportController *controllers.ReportController) {
	// Public routes
	router.HandleFunc("/login", userController.Login).Methods("POST")

	// Everything else requires a session
	protected := router.PathPrefix("/").Subrouter()
	protected.Use(middleware.AuthMiddleware)

	protected.HandleFunc("/profile", userController.GetProfile).Methods("GET")
	protected.HandleFunc("/users/changePassword", userController.ChangePassword).Methods("POST")

	// User administration
	admin := protected.PathPrefix("/users").Subrouter()
	admin.Use(middleware.AdminMiddleware)
	admin.HandleFunc("", userController.GetUsers).Methods("GET")
	admin.HandleFunc("", userController.CreateUser).Methods("POST")
	admin.HandleFunc("/{id}/active", userController.SetUserActive).Methods("PUT")

	// Catalog
	protected.HandleFunc("/products", catalogController.GetProducts).Methods("GET")
	protected.HandleFunc("/products/{id}", catalogController.GetProductByID).Methods("GET")
	protected.HandleFunc("/categories", categoryController.GetCategories).Methods("GET")

	catalogAdmin := protected.PathPrefix("/").Subrouter()
	catalogAdmin.Use(middleware.AdminMiddleware)
	catalogAdmin.HandleFunc("/products", catalogController.CreateProduct).Methods("POST")
	catalogAdmin.HandleFunc("/products/{id}", catalogController.UpdateProduct).Methods("PUT")
	catalogAdmin.HandleFunc("/products/{id}", catalogController.DeleteProduct).Methods("DELETE")
	catalogAdmin.HandleFunc("/categories", categoryController.CreateCategory).Methods("POST")
	catalogAdmin.HandleFunc("/categories/{id}", categoryController.UpdateCategory).Methods("PUT")
	catalogAdmin.HandleFunc("/categories/{id}", categoryController.DeleteCategory).Methods("DELETE")

	// Cart
	protected.HandleFunc("/cart", cartController.GetCart).Methods("GET")
	protected.HandleFunc("/cart", cartController.ClearCart).Methods("DELETE")
	protected.HandleFunc("/cart/items", cartController.AddItem).Methods("POST")
	protected.HandleFunc("/cart/items/{lineId}", cartController.UpdateItemQuantity).Methods("PUT")
	protected.HandleFunc("/cart/items/{lineId}", cartController.RemoveItem).Methods("DELETE")
	protected.HandleFunc("/cart/items/{lineId}/discount", cartController.UpdateItemDiscount).Methods("PUT")
	protected.HandleFunc("/cart/customer", cartController.SetCustomer).Methods("PUT")
	protected.HandleFunc("/cart/tax-rate", cartController.SetTaxRate).Methods("PUT")
	protected.HandleFunc("/cart/promotions/{promotionId}", cartController.ApplyPromotion).Methods("POST")
	protected.HandleFunc("/cart/promotions/{promotionId}", cartController.RemovePromotion).Methods("DELETE")
	protected.HandleFunc("/cart/checkout", cartController.Checkout).Methods("POST")

	// Sales history, pending sales and proforma invoices
	protected.HandleFunc("/sales", salesController.GetSales).Methods("GET")
	protected.HandleFunc("/sales/pending", salesController.GetPendingSales).Methods("GET")
	protected.HandleFunc("/sales/pending/{id}", salesController.DeletePendingSale).Methods("DELETE")
	protected.HandleFunc("/sales/proforma", salesController.GetProformas).Methods("GET")
	protected.HandleFunc("/sales/proforma/{id}", salesController.DeleteProforma).Methods("DELETE")
	protected.HandleFunc("/sales/{id}", salesController.GetSaleByID).Methods("GET")
	protected.HandleFunc("/sales/{id}/convert", salesController.ConvertSale).Methods("POST")

	// Reports and dashboard
	protected.HandleFunc("/reports/dashboard", reportController.GetDashboard).Methods("GET")
	protected.HandleFunc("/reports/sales", reportController.GetSalesReport).Methods("GET")
	protected.HandleFunc("/reports/products", reportController.GetProductPerformance).Methods("GET")
	protected.HandleFunc("/dashboard/revenue-stats", reportController.GetRevenueStats).Methods("GET")
	protected.HandleFunc("/dashboard/top-products", reportController.GetTopProducts).Methods("GET")
	protected.HandleFunc("/dashboard/stock-alerts", reportController.GetStockAlerts).Methods("GET")
}
