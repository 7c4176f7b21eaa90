// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/session"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes configures all API routes
func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	// Handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	productHandler := handlers.NewProductHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	bannerHandler := handlers.NewBannerHandler(db, cfg)
	cartHandler := handlers.NewCartHandler(db, cfg)
	checkoutHandler := handlers.NewCheckoutHandler(db, cfg)
	orderHandler := handlers.NewOrderHandler(db, cfg)
	deliveryHandler := handlers.NewDeliveryHandler(db, cfg)

	sessionService := session.NewService(db, redisClient, cfg)

	// Public storefront routes
	api.GET("/products", productHandler.GetProducts)
	api.GET("/products/:slug", productHandler.GetProduct)
	api.GET("/categories", categoryHandler.GetCategories)
	api.GET("/banners", bannerHandler.GetBanners)
	api.GET("/delivery-costs", deliveryHandler.GetCosts)

	// Authentication routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.GET("/me", middleware.AuthMiddleware(cfg), authHandler.Me)
	}

	// Session-scoped routes: a guest session cookie is established for
	// every caller; signed-in users are recognized via optional auth.
	shop := api.Group("")
	shop.Use(middleware.OptionalAuthMiddleware(cfg))
	shop.Use(middleware.GuestSession(cfg, sessionService))
	{
		shop.GET("/cart", cartHandler.GetCart)
		shop.POST("/cart/items", cartHandler.AddToCart)
		shop.PUT("/cart/items/:productId", cartHandler.UpdateCartItem)
		shop.DELETE("/cart/items/:productId", cartHandler.RemoveCartItem)
		shop.DELETE("/cart", cartHandler.ClearCart)

		shop.POST("/checkout", checkoutHandler.PlaceOrder)
		shop.GET("/orders/:number", checkoutHandler.GetOrderByNumber)
	}

	// Admin routes
	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg))
	admin.Use(middleware.AdminMiddleware())
	{
		admin.POST("/products", productHandler.CreateProduct)
		admin.PUT("/products/:id", productHandler.UpdateProduct)
		admin.DELETE("/products/:id", productHandler.DeleteProduct)
		admin.PUT("/products/:id/stock", productHandler.AdjustStock)
		admin.POST("/products/:id/variants", productHandler.CreateVariant)
		admin.DELETE("/products/:id/variants/:variantId", productHandler.DeleteVariant)

		admin.GET("/categories", categoryHandler.GetAllCategories)
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.PUT("/categories/:id", categoryHandler.UpdateCategory)
		admin.DELETE("/categories/:id", categoryHandler.DeleteCategory)

		admin.GET("/banners", bannerHandler.GetAllBanners)
		admin.POST("/banners", bannerHandler.CreateBanner)
		admin.PUT("/banners/:id", bannerHandler.UpdateBanner)
		admin.DELETE("/banners/:id", bannerHandler.DeleteBanner)

		admin.GET("/orders", orderHandler.GetOrders)
		admin.GET("/orders/:id", orderHandler.GetOrder)
		admin.PUT("/orders/:id/status", orderHandler.UpdateOrderStatus)
		admin.PUT("/orders/:id/cancel", orderHandler.CancelOrder)
		admin.GET("/orders/:id/invoice", orderHandler.DownloadInvoice)

		admin.POST("/delivery-costs/init", deliveryHandler.InitDefaults)
		admin.PUT("/delivery-costs/:zone", deliveryHandler.UpdateCost)
	}
}
