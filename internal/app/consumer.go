package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"go-payroll/internal/attendance"
	"go-payroll/internal/deductions"
	"go-payroll/internal/earnings"
	"go-payroll/internal/employee"
	"go-payroll/internal/events"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/messaging/kafka/consumer"
	"go-payroll/internal/payconfig"
	"go-payroll/internal/payrun"
	"go-payroll/internal/shared/connection"
)

// RunConsumer starts the payroll run consumer: batch calculations requested
// over Kafka instead of HTTP, for schedulers and upstream HR systems.
func RunConsumer() error {
	logger := zap.L().Named("app.consumer")

	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	kafkaBroker := os.Getenv("KAFKA_BROKER")
	if kafkaBroker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payconfigRepo := payconfig.NewRepository(gormDB)
	deductionRepo := deductions.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	payrunService := payrun.NewService(
		employeeRepo,
		attendance.NewAggregator(attendanceRepo),
		earnings.NewEngine(),
		deductions.NewEngine(deductionRepo),
		payconfig.NewLoader(payconfigRepo),
		outboxRepo,
	)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{kafkaBroker},
		Topic:          events.PayrollRunRequestedTopic,
		GroupID:        "go-payroll-run-consumer",
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go consumer.ConsumePayrollRunRequested(ctx, reader, payrunService, logger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("consumer shutting down")
	cancel()

	return nil
}
