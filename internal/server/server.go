package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/mayaeraky/shopcart/config"
	"github.com/mayaeraky/shopcart/internal/handlers"
	"github.com/mayaeraky/shopcart/internal/middleware"
	"github.com/mayaeraky/shopcart/internal/services"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to create logger: %v", err)
	}
	defer logger.Sync()
	services.SetLogger(logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))

	setupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("server starting", zap.String("port", port))
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB) {
	r.Use(middleware.DatabaseMiddleware(db))

	auth := r.Group("/v1")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// Storefront routes, tenant-scoped by the request's domain.
	shop := r.Group("/v1", middleware.ShopMiddleware())
	{
		shop.GET("/products", handlers.ListProducts)
		shop.GET("/products/:id", handlers.GetProduct)

		purchases := shop.Group("/purchases")
		{
			purchases.POST("", handlers.CreatePurchase)
			purchases.GET("", handlers.ListPurchases)
			purchases.GET("/:id", handlers.GetPurchase)
			purchases.PUT("/:id", handlers.UpdatePurchase)
			purchases.POST("/:id/apply-coupon", handlers.ApplyCoupon)
			purchases.POST("/:id/remove-coupon", handlers.RemoveCoupon)
			purchases.POST("/:id/initialize-payment", handlers.InitializePayment)
			purchases.POST("/:id/payment-webhook", handlers.PaymentWebhook)
			purchases.POST("/:id/activate", handlers.ActivatePurchase)
		}

		purchaseProducts := shop.Group("/purchase-products")
		{
			purchaseProducts.POST("", handlers.CreatePurchaseProduct)
			purchaseProducts.PUT("/:id", handlers.UpdatePurchaseProduct)
			purchaseProducts.DELETE("/:id", handlers.DeletePurchaseProduct)
		}
	}

	// Catalog management, staff only.
	protected := r.Group("/v1", middleware.ShopMiddleware(), middleware.JWTAuthMiddleware())
	{
		protected.POST("/products", handlers.CreateProduct)
		protected.PUT("/products/:id", handlers.UpdateProduct)
		protected.DELETE("/products/:id", handlers.DeleteProduct)

		protected.POST("/coupons", handlers.CreateCoupon)
		protected.GET("/coupons", handlers.ListCoupons)
		protected.GET("/coupons/:id", handlers.GetCoupon)
		protected.DELETE("/coupons/:id", handlers.DeleteCoupon)

		protected.POST("/customers", handlers.CreateCustomer)
		protected.GET("/customers", handlers.ListCustomers)
		protected.GET("/customers/:id", handlers.GetCustomer)
		protected.POST("/customers/:id/addresses", handlers.CreateCustomerAddress)
	}
}
