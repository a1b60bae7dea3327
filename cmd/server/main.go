package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	httpctrl "checkout-service/internal/controllers/http"
	"checkout-service/internal/infra"
	"checkout-service/internal/infra/gateway"
	mmysql "checkout-service/internal/infra/mysql"
	"checkout-service/internal/infra/rabbitmq"
	mysqlrepo "checkout-service/internal/repository/mysql"
	"checkout-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	db, err := mmysql.NewMySQLFromEnv()
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	repo := mysqlrepo.NewOrderRepository(db)

	productClient := infra.NewProductClient(os.Getenv("PRODUCT_SERVICE_URL"), 2*time.Second)

	gatewayClient := gateway.NewClient(
		os.Getenv("GATEWAY_BASE_URL"),
		os.Getenv("GATEWAY_KEY_ID"),
		os.Getenv("GATEWAY_KEY_SECRET"),
		5*time.Second,
	)

	publisher, err := rabbitmq.NewPublisher(os.Getenv("RABBITMQ_URL"), "order.exchange")
	if err != nil {
		log.Fatalf("failed to init publisher: %v", err)
	}
	defer publisher.Close()

	pricing := services.PricingPolicy{
		TaxBps:      envInt64("TAX_BPS", 0),
		ShippingFee: envInt64("SHIPPING_FEE", 0),
		Currency:    "INR",
	}

	s := services.NewOrderService(repo, productClient, gatewayClient, publisher, os.Getenv("GATEWAY_KEY_SECRET"), pricing)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         os.Getenv("REDIS_HOST") + ":6379",
		DB:           0,
		PoolSize:     100,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})

	s.SetRedisClient(redisClient)

	// Periodic sweep for created orders whose checkout was abandoned without
	// an explicit cancellation.
	go func() {
		ticker := time.NewTicker(15 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			n, err := s.ReapStaleOrders(context.Background(), 24*time.Hour)
			if err != nil {
				log.Printf("stale order sweep failed: %v", err)
			} else if n > 0 {
				log.Printf("reaped %d stale orders", n)
			}
		}
	}()

	handler := httpctrl.NewHandler(s, redisClient, []byte(os.Getenv("JWT_SECRET")), os.Getenv("GATEWAY_KEY_ID"))

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting checkout service on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("server run: %v", err)
	}
}

func envInt64(key string, fallback int64) int64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		log.Fatalf("invalid %s: %v", key, err)
	}
	return v
}
