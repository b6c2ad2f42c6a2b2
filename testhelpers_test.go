//go:build integration

package main_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/harborstay/service-booking/internal/application"
	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
	"github.com/harborstay/service-booking/internal/events"
	"github.com/harborstay/service-booking/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// bookingStack holds the wired-up booking service components.
type bookingStack struct {
	Bookings        *application.BookingService
	Payments        *application.PaymentLedgerService
	Desk            *application.CheckInOutService
	Rooms           *application.RoomService
	Promotions      *application.PromotionService
	Availability    *application.AvailabilityService
	CleanupProducer func()
}

// setupContainers starts PostgreSQL and Kafka testcontainers and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_booking",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=test password=test dbname=test_booking sslmode=disable", pgHost, pgPort.Port())

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.RoomModel{},
		&repository.PromotionModel{},
		&repository.BookingModel{},
		&repository.PaymentRecordModel{},
	))

	// Start Kafka container using confluent-local (supports KRaft natively).
	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, events.TopicBookingEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupBookingStack wires up the full booking service stack against real
// PostgreSQL and Kafka.
func setupBookingStack(t *testing.T, db *gorm.DB, brokers []string) *bookingStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()

	bookingRepo := repository.NewBookingRepository(db)
	paymentRepo := repository.NewPaymentRecordRepository(db)
	promotionRepo := repository.NewGormPromotionRepository(db)
	roomRepo := repository.NewGormRoomRepository(db)
	transactor := repository.NewGormTransactor(db)

	producer := events.NewProducer(brokers, events.TopicBookingEvents, "service-booking-test", logger)

	promotionSvc := application.NewPromotionService(promotionRepo, roomRepo, logger)
	bookingSvc := application.NewBookingService(
		transactor, bookingRepo, paymentRepo, roomRepo, promotionSvc, producer, "VND", logger)
	paymentSvc := application.NewPaymentLedgerService(
		transactor, bookingRepo, paymentRepo,
		bookingDomain.NewCancellationPolicy(15), producer, logger)
	deskSvc := application.NewCheckInOutService(transactor, bookingRepo, roomRepo, producer, logger)

	return &bookingStack{
		Bookings:        bookingSvc,
		Payments:        paymentSvc,
		Desk:            deskSvc,
		Rooms:           application.NewRoomService(roomRepo, logger),
		Promotions:      promotionSvc,
		Availability:    application.NewAvailabilityService(bookingRepo, logger),
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedRoom inserts a room and returns its ID.
func seedRoom(t *testing.T, db *gorm.DB, hotelID uuid.UUID, number string, rate int64) uuid.UUID {
	t.Helper()
	rm, err := roomDomain.NewRoom(hotelID, number, rate, 2, 2)
	require.NoError(t, err)
	require.NoError(t, repository.NewGormRoomRepository(db).Save(context.Background(), rm))
	return rm.ID()
}

// stayDates returns a future [checkIn, checkOut) date pair in request format.
func stayDates(nights int) (string, string) {
	checkIn := time.Now().AddDate(0, 0, 30)
	return checkIn.Format(time.DateOnly), checkIn.AddDate(0, 0, nights).Format(time.DateOnly)
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the expected type.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType string, timeout time.Duration) events.Envelope {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			continue
		}
		if env.Type == expectedType {
			return env
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	// Give Kafka a moment to propagate topic metadata.
	time.Sleep(1 * time.Second)
}
