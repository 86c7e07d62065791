package router

import (
	"storefront/internal/cart"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/reports"
	"storefront/internal/repository"
	"storefront/internal/service"

	"github.com/gin-contrib/cors"
	"go.uber.org/zap"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Repo    *repository.Repository
	Auth    *service.AuthService
	Tokens  service.TokenProvider
	Cart    *cart.Service
	Reports *reports.Service
	Log     *zap.Logger
}

func Router(d Deps) *gin.Engine {
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	authHandler := handlers.NewAuthHandler(d.Auth, d.Log)
	catalogHandler := handlers.NewCatalogHandler(d.Repo.Products, d.Repo.Categories, d.Log)
	cartHandler := handlers.NewCartHandler(d.Cart, d.Repo.Products, d.Log)
	wishlistHandler := handlers.NewWishlistHandler(d.Repo.Wishlists, d.Repo.Products, d.Log)
	reportsHandler := handlers.NewReportsHandler(d.Reports, d.Log)

	v1 := r.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/password-reset/request", authHandler.RequestPasswordReset)
		auth.POST("/password-reset/confirm", authHandler.ConfirmPasswordReset)
	}

	v1.GET("/products", catalogHandler.ListProducts)
	v1.GET("/products/:id", catalogHandler.GetProduct)
	v1.GET("/categories", catalogHandler.ListCategories)

	authorized := v1.Group("")
	authorized.Use(middleware.AuthRequired(d.Tokens, d.Log))
	{
		cartGroup := authorized.Group("/cart")
		{
			cartGroup.GET("", cartHandler.GetCart)
			cartGroup.POST("/items", cartHandler.AddItem)
			cartGroup.PATCH("/items/:product_id", cartHandler.UpdateItem)
			cartGroup.DELETE("/items/:product_id", cartHandler.RemoveItem)
			cartGroup.DELETE("", cartHandler.ClearCart)
		}

		wishlistGroup := authorized.Group("/wishlist")
		{
			wishlistGroup.GET("", wishlistHandler.List)
			wishlistGroup.POST("/:product_id", wishlistHandler.Add)
			wishlistGroup.DELETE("/:product_id", wishlistHandler.Remove)
		}

		reportsGroup := authorized.Group("/reports")
		reportsGroup.Use(middleware.RoleRequired(models.RoleAdmin, models.RoleSuperAdmin))
		{
			reportsGroup.GET("/dashboard", reportsHandler.Dashboard)
			reportsGroup.GET("/monthly-sales", reportsHandler.MonthlySales)
			reportsGroup.GET("/product-performance", reportsHandler.ProductPerformance)
			reportsGroup.GET("/category-distribution", reportsHandler.CategoryDistribution)
			reportsGroup.GET("/customer-acquisition", reportsHandler.CustomerAcquisition)
			reportsGroup.GET("/sales-summary", reportsHandler.SalesSummary)
			reportsGroup.GET("/customer-insights", reportsHandler.CustomerInsights)
			reportsGroup.GET("/customer-segments", reportsHandler.CustomerSegments)
		}
	}

	return r
}
