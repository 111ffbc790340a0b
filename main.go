package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"bytecore/internal/cart"
	"bytecore/internal/checkout"
	"bytecore/internal/config"
	"bytecore/internal/database"
	"bytecore/internal/events"
	"bytecore/internal/handlers"
	"bytecore/internal/middleware"
	"bytecore/internal/notify"
	"bytecore/internal/payment"
	"bytecore/internal/session"
	"bytecore/internal/store"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("[DB] [WARN] product index: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("[DB] [WARN] user index: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("[DB] [WARN] order index: %v", err)
	}
	if err := database.SeedProducts(context.Background(), db); err != nil {
		log.Printf("[DB] [WARN] catalog seed: %v", err)
	}

	orders := store.NewOrders(db)
	telegram := notify.NewTelegram(config.AppEnv.TelegramBotToken, config.AppEnv.TelegramChatID)
	razorpay := payment.NewRazorpay(config.AppEnv.RazorpayKeyID, config.AppEnv.RazorpayKeySecret)

	var publisher *events.Publisher
	if config.AppEnv.RabbitMQURL != "" {
		publisher, err = events.NewPublisher(config.AppEnv.RabbitMQURL, config.AppEnv.OrderExchange, config.AppEnv.OrderQueue)
		if err != nil {
			log.Printf("[EVENTS] [WARN] rabbitmq unavailable, order events disabled: %v", err)
			publisher = nil
		} else {
			defer publisher.Close()
		}
	} else {
		log.Println("[EVENTS] [INFO] RABBITMQ_URL not set, order events disabled")
	}

	sessions := session.NewManager(func(c *cart.Cart) *checkout.Workflow {
		return checkout.New(c, orders, telegram, razorpay)
	})

	r := gin.Default()
	r.Use(middleware.Prometheus())
	r.Static("/public", config.AppEnv.PublicRoot)

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.POST("/auth/register", handlers.Register(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.POST("/auth/login", handlers.Login(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.GetMe(db))
	r.POST("/auth/refresh", handlers.Refresh(
		db,
		config.AppEnv.JWTSecret,
		config.AppEnv.AccessTokenTTL,
		config.AppEnv.RefreshTokenTTL,
	))
	r.POST("/auth/logout", handlers.Logout(db))

	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/:id", handlers.GetProduct(db))
	r.GET("/categories", handlers.GetCategories(db))

	shop := r.Group("/")
	shop.Use(middleware.CartSession(sessions))
	{
		shop.GET("/cart", handlers.GetCart())
		shop.POST("/cart/items", handlers.AddCartItem(db))
		shop.PUT("/cart/items/:id", handlers.SetCartQuantity())
		shop.DELETE("/cart/items/:id", handlers.RemoveCartItem())
		shop.DELETE("/cart", handlers.ClearCart())

		shop.POST("/checkout",
			middleware.OptionalUserAuth(config.AppEnv.JWTSecret),
			handlers.PlaceOrder(publisher))
		shop.POST("/checkout/confirm", handlers.ConfirmPayment(publisher))
		shop.POST("/checkout/cancel", handlers.CancelPayment())
		shop.GET("/checkout/state", handlers.CheckoutState())
	}

	r.POST("/listings", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.CreateListing(db))

	admin := r.Group("/admin/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.GET("/me", func(c *gin.Context) {
			c.JSON(200, gin.H{"ok": true})
		})

		admin.GET("/products", handlers.GetAllProducts(db))
		admin.POST("/products/:id/approve", handlers.ApproveListing(db))
		admin.DELETE("/products/:id", handlers.DeleteProduct(db))

		admin.GET("/orders", handlers.GetOrders(db))
		admin.DELETE("/orders/:id", handlers.DeleteOrder(db))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
