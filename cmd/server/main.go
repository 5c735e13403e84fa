package main

import (
	"log"
	"time"

	"peptide-store/internal/config"
	"peptide-store/internal/database"
	"peptide-store/internal/handlers"
	"peptide-store/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	app := handlers.NewApp(db, cfg)

	// Abandoned carts (and their checkout sessions) evaporate after a day
	go func() {
		for range time.Tick(time.Hour) {
			if n := app.Carts.Sweep(24 * time.Hour); n > 0 {
				log.Printf("Swept %d stale carts", n)
			}
		}
	}()

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Cart-Token"},
		ExposeHeaders:    []string{"Content-Length", "X-Cart-Token"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", app.Login)
	r.Static("/uploads", cfg.UploadDir)

	// --- FEATURE FLAG: Admin Registration ---
	// Only opens if we explicitly allow it in .env
	if cfg.AllowRegistration {
		r.POST("/register", app.Register)
		log.Println("⚠️ WARNING: Registration route is OPEN. Disable this in production!")
	} else {
		log.Println("🔒 Registration route is safely DISABLED.")
	}

	// --- PUBLIC STOREFRONT ---
	api := r.Group("/api")
	{
		api.GET("/products", app.GetProducts)
		api.GET("/products/:id", app.GetProduct)
		api.GET("/categories", app.GetCategories)
		api.GET("/faqs", app.GetFAQs)
		api.GET("/protocols", app.GetProtocols)
		api.GET("/coa-reports", app.GetCoaReports)
		api.GET("/payment-methods", app.GetPaymentMethods)
		api.GET("/shipping-locations", app.GetShippingLocations)
		api.GET("/site-settings", app.GetSiteSettings)
		api.GET("/catalog/events", app.CatalogEvents)

		// Cart - keyed by the X-Cart-Token header
		api.GET("/cart", app.GetCart)
		api.POST("/cart/items", app.AddToCart)
		api.PUT("/cart/items/:index", app.UpdateCartItem)
		api.DELETE("/cart/items/:index", app.RemoveCartItem)
		api.DELETE("/cart", app.ClearCart)

		// Checkout state machine
		api.GET("/checkout", app.GetCheckout)
		api.POST("/checkout/details", app.SubmitDetails)
		api.POST("/checkout/back", app.CheckoutBack)
		api.POST("/checkout/payment-method", app.SelectPaymentMethod)
		api.POST("/checkout/proof", app.UploadProof)
		api.POST("/checkout/promo", app.ApplyPromo)
		api.DELETE("/checkout/promo", app.RemovePromo)
		api.POST("/checkout/place-order", app.PlaceOrder)

		// Customer order tracking (id + email)
		api.GET("/orders/:id/track", app.TrackOrder)
	}

	// --- ADMIN BACK-OFFICE ---
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	admin.Use(middleware.RequireRole("admin"))
	{
		admin.POST("/ask", app.AskAI)
		admin.POST("/upload", app.UploadImage)

		// Products & variations
		admin.POST("/products", app.AddProduct)
		admin.PUT("/products/:id", app.UpdateProduct)
		admin.DELETE("/products/:id", app.DeleteProduct)
		admin.POST("/products/:id/variations", app.AddVariation)
		admin.PUT("/variations/:variationId", app.UpdateVariation)
		admin.DELETE("/variations/:variationId", app.DeleteVariation)

		// Categories
		admin.POST("/categories", app.AddCategory)
		admin.PUT("/categories/:id", app.UpdateCategory)
		admin.DELETE("/categories/:id", app.DeleteCategory)

		// Promo codes
		admin.GET("/promo-codes", app.ListPromoCodes)
		admin.POST("/promo-codes", app.AddPromoCode)
		admin.PUT("/promo-codes/:id", app.UpdatePromoCode)
		admin.DELETE("/promo-codes/:id", app.DeletePromoCode)

		// Payment methods, shipping fees, couriers
		admin.GET("/payment-methods", app.ListAllPaymentMethods)
		admin.POST("/payment-methods", app.AddPaymentMethod)
		admin.PUT("/payment-methods/:id", app.UpdatePaymentMethod)
		admin.DELETE("/payment-methods/:id", app.DeletePaymentMethod)
		admin.PUT("/shipping-locations/:id", app.UpdateShippingFee)
		admin.GET("/couriers", app.ListCouriers)
		admin.POST("/couriers", app.AddCourier)
		admin.PUT("/couriers/:id", app.UpdateCourier)
		admin.DELETE("/couriers/:id", app.DeleteCourier)

		// Content
		admin.GET("/faqs", app.ListAllFAQs)
		admin.POST("/faqs", app.AddFAQ)
		admin.PUT("/faqs/:id", app.UpdateFAQ)
		admin.DELETE("/faqs/:id", app.DeleteFAQ)
		admin.GET("/protocols", app.ListAllProtocols)
		admin.POST("/protocols", app.AddProtocol)
		admin.PUT("/protocols/:id", app.UpdateProtocol)
		admin.DELETE("/protocols/:id", app.DeleteProtocol)
		admin.POST("/coa-reports", app.AddCoaReport)
		admin.PUT("/coa-reports/:id", app.UpdateCoaReport)
		admin.DELETE("/coa-reports/:id", app.DeleteCoaReport)
		admin.POST("/site-settings", app.UpsertSiteSetting)
		admin.DELETE("/site-settings/:key", app.DeleteSiteSetting)

		// Order fulfillment workflow
		admin.GET("/orders", app.ListOrders)
		admin.GET("/orders/:id", app.GetOrder)
		admin.POST("/orders/:id/confirm", app.ConfirmOrder)
		admin.POST("/orders/:id/status", app.UpdateOrderStatus)
		admin.POST("/orders/:id/cancel", app.CancelOrder)
		admin.PUT("/orders/:id/tracking", app.SetTracking)
		admin.POST("/orders/bulk-delete", app.BulkDeleteOrders)

		// Dashboard
		admin.GET("/reports", app.GetSalesReport)
	}

	log.Println("🚀 Server starting on " + cfg.BaseURL)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
