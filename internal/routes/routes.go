package routes

import (
	"net/http"
	"os"
	"time"

	"lumiskin_back_end/internal/handlers/account"
	"lumiskin_back_end/internal/handlers/admin"
	"lumiskin_back_end/internal/handlers/order"
	"lumiskin_back_end/internal/handlers/product"
	"lumiskin_back_end/internal/handlers/promotion"
	"lumiskin_back_end/internal/handlers/quiz"
	"lumiskin_back_end/internal/middleware"
	"lumiskin_back_end/internal/realtime"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires every endpoint. Public catalog reads need no token;
// everything touching an account or an order goes through AuthRequired, and
// the back-office routes additionally require the manager or admin role.
func RegisterRoutes(r *gin.Engine, orderHandler *order.Handler, adminHandler *admin.Handler) {
	frontendURL := os.Getenv("FRONTEND_URL")
	if frontendURL == "" {
		frontendURL = "http://localhost:3000"
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{frontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Auth
	auth := api.Group("/auth")
	{
		auth.POST("/register", account.Register)
		auth.POST("/login", middleware.LoginRateLimit(), account.Login)
		auth.POST("/forgot-password", account.ForgotPassword)
		auth.POST("/reset-password", account.ResetPassword)
		auth.GET("/me", middleware.AuthRequired(), account.Me)
	}

	// Catalog (public reads, manager writes)
	products := api.Group("/product")
	{
		products.GET("/", product.GetProducts)
		products.GET("/search", product.SearchProducts)
		products.GET("/:id", product.GetProductByID)

		managed := products.Group("/", middleware.AuthRequired(), middleware.RequireManager)
		managed.POST("/", product.CreateProduct)
		managed.PUT("/:id", product.UpdateProduct)
		managed.DELETE("/:id", product.DeleteProduct)
		managed.POST("/:id/image", product.UploadImage)
	}

	catalog := api.Group("/catalog")
	{
		catalog.GET("/brands", product.GetBrands)
		catalog.GET("/categories", product.GetCategories)
		catalog.GET("/skin-types", product.GetSkinTypes)

		managed := catalog.Group("/", middleware.AuthRequired(), middleware.RequireManager)
		managed.POST("/brands", product.CreateBrand)
		managed.POST("/categories", product.CreateCategory)
		managed.POST("/skin-types", product.CreateSkinType)
	}

	// Feedback
	api.POST("/feedback", middleware.AuthRequired(), product.CreateFeedback)
	api.GET("/feedback/product/:id", product.GetProductFeedback)

	// Quiz
	quizGroup := api.Group("/quiz")
	{
		quizGroup.GET("/questions", quiz.GetQuestions)
		quizGroup.POST("/submit", middleware.AuthRequired(), quiz.Submit)
		quizGroup.GET("/recommendations", middleware.AuthRequired(), quiz.Recommendations)
	}

	// Orders
	ordersGroup := api.Group("/order", middleware.AuthRequired())
	{
		ordersGroup.POST("/add-to-cart", orderHandler.AddToCart)
		ordersGroup.GET("/account/:id", orderHandler.ListAccountOrders)
		ordersGroup.GET("/:id", orderHandler.GetOrder)
		ordersGroup.POST("/cancel-order/:id", orderHandler.CancelOrder)
		ordersGroup.GET("/ws", realtime.OrderStatusWebSocket)
	}
	// The gateway redirects the buyer here; no token on a cross-site return.
	api.GET("/order/vnpay-return", orderHandler.VNPayReturn)

	// Promotions
	promotions := api.Group("/promotion")
	{
		promotions.GET("/active", promotion.GetActivePromotions)

		managed := promotions.Group("/", middleware.AuthRequired(), middleware.RequireManager)
		managed.GET("/", promotion.GetAllPromotions)
		managed.POST("/", promotion.CreatePromotion)
		managed.PATCH("/:id/deactivate", promotion.DeactivatePromotion)
	}

	// Back-office
	adminGroup := api.Group("/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		adminGroup.GET("/dashboard", adminHandler.Dashboard)
		adminGroup.GET("/orders/stale", adminHandler.StaleOrders)
	}
}
