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

	"github.com/gin-gonic/gin"

	"github.com/pradeepl-italliance/Era-flix-sub000/internal/config"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/database"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/catalog"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/notification"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/domain/reservation"
	"github.com/pradeepl-italliance/Era-flix-sub000/internal/middleware"
	jwtsvc "github.com/pradeepl-italliance/Era-flix-sub000/internal/pkg/jwt"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := reservation.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := notification.Migrate(db); err != nil {
		log.Fatal(err)
	}

	tokens := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	outboxRepo := notification.NewRepository(db)
	notifier := notification.NewService(outboxRepo)
	hub := notification.NewHub()

	sinks := notification.MultiSink{notification.LogSink{}, hub}
	if cfg.RedisURL != "" {
		rdb, err := notification.NewRedisClient(cfg.RedisURL)
		if err != nil {
			log.Fatal(err)
		}
		defer rdb.Close()
		sinks = append(sinks, notification.NewRedisStreamSink(rdb, cfg.RedisStream))
		log.Printf("booking events -> redis stream %s", cfg.RedisStream)
	}
	if cfg.SQSQueueURL != "" {
		client, err := notification.NewSQSClient(context.Background())
		if err != nil {
			log.Fatal(err)
		}
		sinks = append(sinks, notification.NewSQSSink(client, cfg.SQSQueueURL))
		log.Printf("booking events -> sqs %s", cfg.SQSQueueURL)
	}

	relay := notification.NewRelay(outboxRepo, sinks, notification.RelayConfig{
		BatchSize:   cfg.RelayBatchSize,
		MaxAttempts: cfg.RelayMaxAttempts,
		Retention:   cfg.OutboxRetention,
	})
	if err := relay.Start(cfg.RelayInterval); err != nil {
		log.Fatal(err)
	}

	bookingService := reservation.NewService(
		reservation.NewRepository(db),
		catalog.NewRepository(db),
		notifier,
		reservation.Options{
			BookingIDPrefix:   cfg.BookingIDPrefix,
			IdentifierRetries: cfg.IdentifierRetries,
			Location:          cfg.Location,
		},
	)
	bookingHandler := reservation.NewHandler(bookingService)
	wsHandler := notification.NewWSHandler(hub, tokens)

	if config.IsProdLike(cfg.AppEnv) {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), middleware.ErrorLogger(), middleware.CORS(cfg.CORSAllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		// websocket checks its own token
		wsHandler.RegisterRoutes(v1)

		// staff, same paths behind JWT + role guard
		staff := v1.Group("", middleware.JWTAuth(tokens), middleware.StaffOnly())

		bookingHandler.RegisterRoutes(v1, staff)
	}

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	if err := relay.Stop(); err != nil {
		log.Printf("relay shutdown: %v", err)
	}
}
