package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/config"
	"github.com/spicehut/food-order-app/middlewares"
	"github.com/spicehut/food-order-app/models"
	"github.com/spicehut/food-order-app/realtime"
	"github.com/spicehut/food-order-app/router"
	"github.com/spicehut/food-order-app/store"
	"github.com/spicehut/food-order-app/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Document{}); err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}

	docStore := store.NewGormStore(db)

	cartStorage, err := buildCartStorage()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to set up cart storage: %v", err)
	}
	carts := cart.NewManager(cartStorage)

	hub := realtime.NewHub()
	unbind := hub.BindStore(docStore)
	defer unbind()

	r := router.SetupRouter(router.Deps{
		DB:    db,
		Store: docStore,
		Carts: carts,
		Hub:   hub,
	})

	rateLimiter := middlewares.NewRateLimiter(50, 1)
	r.Use(rateLimiter.RateLimit())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

// buildCartStorage picks the cart backend: Redis when REDIS_ADDR is set,
// otherwise files under CART_DIR.
func buildCartStorage() (cart.Storage, error) {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		ttlHours := 72
		if raw := os.Getenv("CART_TTL_HOURS"); raw != "" {
			if parsed, err := strconv.Atoi(raw); err == nil {
				ttlHours = parsed
			}
		}
		return cart.NewRedisStorage(addr, os.Getenv("REDIS_PASSWORD"), time.Duration(ttlHours)*time.Hour), nil
	}

	dir := os.Getenv("CART_DIR")
	if dir == "" {
		dir = "data/carts"
	}
	return cart.NewFileStorage(dir)
}
