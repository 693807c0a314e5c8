package main

import (
	"log"
	"os"
	"strconv"
	"time"

	_ "rentkar/api/swagger" // swagger docs
	"rentkar/internal/database"
	"rentkar/internal/handler"
	"rentkar/internal/middleware"
	"rentkar/internal/repository"
	"rentkar/internal/service"
	"rentkar/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           RentKar API
// @version         1.0
// @description     Peer-to-peer item lending: listings, borrow-request lifecycle and notifications.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := envOr("DB_HOST", "localhost")
	dbPort := envOr("DB_PORT", "5432")
	dbUser := envOr("DB_USER", "postgres")
	dbPassword := envOr("DB_PASSWORD", "postgres")
	dbName := envOr("DB_NAME", "rentkar")
	dbSslMode := envOr("DB_SSLMODE", "disable")

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	userRepo := repository.NewUserRepository(db)
	itemRepo := repository.NewItemRepository(db)
	requestRepo := repository.NewBorrowRequestRepository(db)
	txManager := repository.NewTransactionManager(db)

	authService := service.NewAuthService(userRepo, middleware.GetJWTSecret())
	itemService := service.NewItemService(itemRepo)
	borrowService := service.NewBorrowService(requestRepo, itemRepo, txManager, wsHub)

	aiCfg := loadAIConfig()
	aiLimiter := service.NewRateLimiter(aiCfg.RateLimitPerHour, time.Hour)
	aiService := service.NewAIService(aiCfg, aiLimiter)

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	itemHandler := handler.NewItemHandler(itemService)
	borrowHandler := handler.NewBorrowHandler(borrowService)
	aiHandler := handler.NewAIHandler(aiService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:3000"} // Frontend URL
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))
	itemHandler.RegisterRoutes(router.Group(""))
	borrowHandler.RegisterRoutes(router.Group(""))
	aiHandler.RegisterRoutes(router.Group(""))

	port := envOr("PORT", "8080")

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadAIConfig() service.AIConfig {
	cfg := service.AIConfig{
		APIKey:           os.Getenv("GEMINI_API_KEY"),
		Endpoint:         envOr("GEMINI_ENDPOINT", "https://generativelanguage.googleapis.com/v1beta"),
		Model:            envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		Timeout:          30 * time.Second,
		Temperature:      envFloatOr("AI_TEMPERATURE", 0.7),
		MaxTokensTitle:   envIntOr("AI_MAX_TOKENS_TITLE", 50),
		MaxTokensDesc:    envIntOr("AI_MAX_TOKENS_DESCRIPTION", 500),
		RateLimitPerHour: envIntOr("AI_RATE_LIMIT_PER_HOUR", 10),
	}
	cfg.Enabled = cfg.APIKey != "" && envOr("AI_ENABLED", "true") == "true"
	if !cfg.Enabled {
		log.Println("AI generation disabled (missing GEMINI_API_KEY or AI_ENABLED=false)")
	}
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}
