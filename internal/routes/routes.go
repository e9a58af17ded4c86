package routes

import (
	"net/http"
	"os"
	"strings"
	"time"

	"crema_back_end/internal/cache"
	"crema_back_end/internal/handlers/menu"
	"crema_back_end/internal/handlers/order"
	"crema_back_end/internal/handlers/specials"
	"crema_back_end/internal/handlers/staff"
	"crema_back_end/internal/handlers/user"
	"crema_back_end/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes branche toute la surface REST. Le cache catalogue est
// injecté dans les handlers qui lisent ou écrivent le catalogue.
func RegisterRoutes(r *gin.Engine, catalogCache *cache.Cache) {
	// --- CORS (liste blanche depuis .env) ---
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:4173"}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.Use(middleware.APIRateLimit())

	menuHandler := menu.NewHandler(catalogCache)
	specialsHandler := specials.NewHandler(catalogCache)
	staffHandler := staff.NewHandler(catalogCache)
	orderHandler := order.NewHandler(order.PolicyFromEnv())

	// --- Santé ---
	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "message": "Server is running"})
	})

	// --- Auth ---
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", middleware.RegisterRateLimit(), user.Register)
		auth.POST("/login", middleware.LoginRateLimit(), user.Login)
		auth.GET("/me", middleware.AuthRequired(), user.Me)
	}

	// --- Menu (lectures publiques, cachées 5 minutes) ---
	menuGroup := r.Group("/api/menu")
	{
		menuGroup.GET("", menuHandler.GetMenu)
		menuGroup.GET("/categories", menuHandler.GetCategories)
		menuGroup.GET("/bestsellers", menuHandler.GetBestsellers)
		menuGroup.GET("/category/:category", menuHandler.GetByCategory)
		menuGroup.GET("/type/:type", menuHandler.GetByType)
		menuGroup.GET("/item/:id", menuHandler.GetItem)
		menuGroup.GET("/search", menuHandler.Search)

		// Écritures réservées aux administrateurs
		menuGroup.POST("", middleware.AuthRequired(), middleware.RequireAdmin, menuHandler.Create)
		menuGroup.PUT("/item/:id", middleware.AuthRequired(), middleware.RequireAdmin, menuHandler.Update)
		menuGroup.DELETE("/item/:id", middleware.AuthRequired(), middleware.RequireAdmin, menuHandler.Delete)
		menuGroup.POST("/clear-cache", middleware.AuthRequired(), middleware.RequireAdmin, menuHandler.ClearCache)
	}

	// --- Plats du jour & équipe (lectures publiques) ---
	r.GET("/api/specials", specialsHandler.GetSpecials)
	r.GET("/api/staff", staffHandler.GetStaff)

	// --- Back-office admin ---
	admin := r.Group("/api/admin", middleware.AuthRequired(), middleware.RequireAdmin)
	{
		admin.POST("/menu", menuHandler.Create)
		admin.PUT("/menu/:id", menuHandler.Update)
		admin.DELETE("/menu/:id", menuHandler.Delete)

		admin.POST("/specials", specialsHandler.Create)
		admin.PUT("/specials/:id", specialsHandler.Update)
		admin.DELETE("/specials/:id", specialsHandler.Delete)

		admin.POST("/staff", staffHandler.Create)
		admin.PUT("/staff/:id", staffHandler.Update)
		admin.DELETE("/staff/:id", staffHandler.Delete)
	}

	// --- Commandes (toujours authentifiées) ---
	orders := r.Group("/api/orders", middleware.AuthRequired())
	{
		orders.POST("", orderHandler.PlaceOrder)
		orders.GET("", orderHandler.GetMyOrders)
		orders.GET("/:orderId", orderHandler.GetOrderByID)
		orders.POST("/:orderId/payment", orderHandler.ProcessPayment)
		orders.GET("/:orderId/receipt", orderHandler.Receipt)
	}
}
