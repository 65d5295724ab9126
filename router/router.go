package router

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/spicehut/food-order-app/cart"
	"github.com/spicehut/food-order-app/controllers"
	"github.com/spicehut/food-order-app/middlewares"
	"github.com/spicehut/food-order-app/realtime"
	"github.com/spicehut/food-order-app/services"
	"github.com/spicehut/food-order-app/store"
)

// Deps carries everything the routes need; main wires it up once.
type Deps struct {
	DB    *gorm.DB
	Store store.Store
	Carts *cart.Manager
	Hub   *realtime.Hub
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	promoSvc := services.NewPromoService(deps.Store)
	checkoutSvc := services.NewCheckoutService(deps.Store)
	if raw := os.Getenv("CHECKOUT_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			checkoutSvc.Timeout = d
		}
	}

	userCtrl := controllers.NewUserController(deps.DB, deps.Store)
	menuCtrl := controllers.NewMenuController(deps.Store)
	cartCtrl := controllers.NewCartController(deps.Carts, deps.Store, promoSvc)
	promoCtrl := controllers.NewPromoController(deps.Carts, promoSvc)
	checkoutCtrl := controllers.NewCheckoutController(deps.Carts, checkoutSvc, promoSvc)
	orderCtrl := controllers.NewOrderController(deps.Store)
	paymentCtrl := controllers.NewPaymentController(deps.Store)
	offerCtrl := controllers.NewOfferController(deps.Store)
	realtimeCtrl := controllers.NewRealtimeController(deps.Hub)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// auth endpoints get the strict limiter
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// browsing is open to everyone
	r.GET("/menus", menuCtrl.GetAllProducts)
	r.GET("/menus/:product_id", menuCtrl.GetProduct)

	// cart and checkout work for guests; a valid token just moves the
	// session onto the account
	session := r.Group("/")
	session.Use(middlewares.OptionalAuthMiddleware())
	{
		session.GET("/cart", cartCtrl.GetCart)
		session.POST("/cart/items", cartCtrl.AddItem)
		session.PATCH("/cart/items/:product_id", cartCtrl.UpdateItem)
		session.DELETE("/cart/items/:product_id", cartCtrl.RemoveItem)

		session.POST("/cart/promo", promoCtrl.ApplyPromo)
		session.DELETE("/cart/promo", promoCtrl.RemovePromo)

		// guest checkout allowed: no token means userId "guest"
		session.POST("/checkout", checkoutCtrl.PlaceOrder)
	}

	// signed-in customers
	user := r.Group("/")
	user.Use(middlewares.AuthMiddleware())
	{
		user.GET("/profile", userCtrl.GetProfile)
		user.GET("/addresses", userCtrl.GetAddresses)
		user.GET("/my-orders", orderCtrl.GetMyOrders)
	}

	// admin / kitchen
	admin := r.Group("/admin")
	admin.Use(middlewares.AuthMiddleware())
	{
		staff := admin.Group("/")
		staff.Use(middlewares.RequireRole("chef"))
		{
			staff.GET("/orders", orderCtrl.GetAllOrders)
			staff.GET("/orders/:order_id", orderCtrl.GetOrderByID)
			staff.PATCH("/orders/:order_id", orderCtrl.UpdateOrderStatus)
		}

		adminOnly := admin.Group("/")
		adminOnly.Use(middlewares.RequireRole())
		{
			adminOnly.GET("/payments", paymentCtrl.GetAllPayments)
			adminOnly.GET("/payments/:transaction_id", paymentCtrl.GetPayment)

			adminOnly.GET("/offers", offerCtrl.GetAllOffers)
			adminOnly.POST("/offers", offerCtrl.CreateOffer)
			adminOnly.PATCH("/offers/:offer_id", offerCtrl.UpdateOffer)
			adminOnly.DELETE("/offers/:offer_id", offerCtrl.DeleteOffer)

			adminOnly.POST("/menus", menuCtrl.CreateProduct)
			adminOnly.PATCH("/menus/:product_id", menuCtrl.UpdateProduct)
			adminOnly.DELETE("/menus/:product_id", menuCtrl.DeleteProduct)
		}
	}

	// websocket for dashboards
	ws := r.Group("/ws")
	ws.Use(middlewares.WebSocketAuthMiddleware())
	{
		ws.GET("/dashboard", realtimeCtrl.Handler)
	}

	return r
}
