package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ivan-22-3-5/e-commerce/clients"
	"github.com/ivan-22-3-5/e-commerce/config"
	orderControllers "github.com/ivan-22-3-5/e-commerce/controllers/order"
	"github.com/ivan-22-3-5/e-commerce/crud"
	"github.com/ivan-22-3-5/e-commerce/models"
	"github.com/ivan-22-3-5/e-commerce/payments"
	"github.com/ivan-22-3-5/e-commerce/routes"
	"github.com/ivan-22-3-5/e-commerce/service"
	"github.com/ivan-22-3-5/e-commerce/tasks"
)

func main() {
	log.Println("✅ Starting application...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	db := initDatabase(cfg.DatabaseURL)

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ProductImage{},
		&models.Category{},
		&models.Review{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.RefreshToken{},
		&models.RecoveryToken{},
		&models.ConfirmationToken{},
	); err != nil {
		log.Fatalf("❌ AutoMigrate failed: %v", err)
	}

	// External clients
	codes := clients.NewRedisCodeStore(cfg.RedisAddr)
	defer codes.Close()

	queue := tasks.NewClient(cfg.RedisAddr)
	defer queue.Close()

	mailer := tasks.NewSMTPMailer(tasks.SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
	})
	worker, mux := tasks.NewWorker(cfg.RedisAddr, mailer)
	go tasks.RunWorker(worker, mux)

	gateway := payments.NewStripeGateway(payments.Config{
		SecretKey:     cfg.StripeSecretKey,
		WebhookSecret: cfg.StripeWebhookSecret,
		SuccessURL:    cfg.PaymentSuccessURL,
		Currency:      cfg.Currency,
	})

	// Services
	store := crud.NewStore(db)
	tokens := service.NewTokenService(store, cfg.TokenSecret, service.TokenTTLs{
		Access:       cfg.AccessTokenTTL,
		Refresh:      cfg.RefreshTokenTTL,
		Recovery:     cfg.RecoveryTTL,
		Confirmation: cfg.ConfirmationTTL,
	})
	users := service.NewUserService(store, tokens, codes, queue, service.UserServiceConfig{
		CodeTTL:              cfg.ConfirmationCodeTTL,
		ConfirmationLinkBase: cfg.ConfirmationLinkBase,
		RecoveryLinkBase:     cfg.RecoveryLinkBase,
	})
	catalog := service.NewCatalogService(store)
	carts := service.NewCartService(store)
	orders := service.NewOrderService(store)
	paymentsSvc := service.NewPaymentService(store, gateway, orders)

	orderFeed := orderControllers.NewFeed()
	orders.OnCreated(orderFeed.Broadcast)

	// Gin setup
	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "Stripe-Signature"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, routes.Deps{
		Users:      users,
		Tokens:     tokens,
		Catalog:    catalog,
		Carts:      carts,
		Orders:     orders,
		Payments:   paymentsSvc,
		Gateway:    gateway,
		OrderFeed:  orderFeed,
		RefreshTTL: cfg.RefreshTokenTTL,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("🚀 Server running on port %s...", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("✅ Shutting down...")
	worker.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Shutdown: %v", err)
	}
}

func initDatabase(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to database")
	return db
}
