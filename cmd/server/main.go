package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/harborstay/service-booking/internal/application"
	"github.com/harborstay/service-booking/internal/auth"
	"github.com/harborstay/service-booking/internal/config"
	"github.com/harborstay/service-booking/internal/database"
	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	"github.com/harborstay/service-booking/internal/events"
	"github.com/harborstay/service-booking/internal/handler"
	"github.com/harborstay/service-booking/internal/health"
	"github.com/harborstay/service-booking/internal/logger"
	"github.com/harborstay/service-booking/internal/metrics"
	"github.com/harborstay/service-booking/internal/middleware"
	"github.com/harborstay/service-booking/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	db, err := database.Connect(cfg.DB.DSN(), zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(
			&repository.RoomModel{},
			&repository.PromotionModel{},
			&repository.BookingModel{},
			&repository.PaymentRecordModel{},
		); err != nil {
			zapLogger.Fatal("failed to auto-migrate schema", zap.Error(err))
		}
	} else {
		if err := database.RunMigrations(cfg.DB.URL(), "migrations", zapLogger); err != nil {
			zapLogger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.Kafka.Brokers) > 0 {
		producer := events.NewProducer(cfg.Kafka.Brokers, events.TopicBookingEvents, "service-booking", zapLogger)
		defer producer.Close()
		publisher = producer
	} else {
		zapLogger.Warn("KAFKA_BROKERS not set, booking events disabled")
	}

	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRecordRepository(db)
	promotionRepo := repository.NewGormPromotionRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	transactor := repository.NewGormTransactor(db)

	promotionService := application.NewPromotionService(promotionRepo, roomRepo, zapLogger)
	availabilityService := application.NewAvailabilityService(bookingRepo, zapLogger)
	bookingService := application.NewBookingService(
		transactor, bookingRepo, paymentRepo, roomRepo,
		promotionService, publisher, cfg.Currency, zapLogger,
	)
	paymentService := application.NewPaymentLedgerService(
		transactor, bookingRepo, paymentRepo,
		bookingDomain.NewCancellationPolicy(cfg.CancellationFeePercent),
		publisher, zapLogger,
	)
	checkInOutService := application.NewCheckInOutService(
		transactor, bookingRepo, roomRepo, publisher, zapLogger,
	)
	roomService := application.NewRoomService(roomRepo, zapLogger)

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)

	if cfg.AppEnv != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	m, metricsHandler := metrics.New()
	router.Use(
		middleware.Recovery(zapLogger),
		middleware.RequestID(),
		middleware.RequestLogger(zapLogger),
		middleware.CORS(),
		m.Middleware(),
	)

	health.NewHandler(db, "service-booking").RegisterRoutes(router)
	router.GET("/metrics", metricsHandler)

	api := router.Group("/api/v1")
	handler.NewAvailabilityHandler(availabilityService).RegisterRoutes(api)
	handler.NewBookingHandler(bookingService, paymentService, checkInOutService, m).RegisterRoutes(api, jwtManager)
	handler.NewPromotionHandler(promotionService).RegisterRoutes(api, jwtManager)
	handler.NewRoomHandler(roomService).RegisterRoutes(api, jwtManager)

	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("forced shutdown", zap.Error(err))
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	zapLogger.Info("server stopped")
}
