package app

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"go-payroll/internal/attendance"
	"go-payroll/internal/deductions"
	"go-payroll/internal/earnings"
	"go-payroll/internal/employee"
	"go-payroll/internal/messaging/kafka"
	"go-payroll/internal/middleware"
	"go-payroll/internal/payconfig"
	"go-payroll/internal/payrun"
	"go-payroll/internal/thirteenth"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	payconfigRepo := payconfig.NewRepository(gormDB)
	deductionRepo := deductions.NewRepository(gormDB)
	thirteenthRepo := thirteenth.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Calculation core ---
	aggregator := attendance.NewAggregator(attendanceRepo)
	configLoader := payconfig.NewLoader(payconfigRepo)
	earningsEngine := earnings.NewEngine()
	deductionsEngine := deductions.NewEngine(deductionRepo)
	thirteenthCalc := thirteenth.NewCalculator(employeeRepo, aggregator, thirteenthRepo, configLoader)

	// --- Services ---
	payconfigService := payconfig.NewService(gormDB, payconfigRepo, rdb)
	payrunService := payrun.NewService(
		employeeRepo,
		aggregator,
		earningsEngine,
		deductionsEngine,
		configLoader,
		outboxRepo,
	)

	// --- Handlers ---
	payconfigHandler := payconfig.NewHandler(payconfigService)
	payrunHandler := payrun.NewHandler(payrunService, thirteenthCalc)

	// --- Routes ---
	router.Use(middleware.RequestContext(zap.L()))

	api := router.Group("/api/v1")
	api.Use(
		middleware.RateLimitByIP(10, 20),
		middleware.Idempotency(rdb, zap.L()),
	)
	{
		payconfig.RegisterRoutes(api, payconfigHandler)
		payrun.RegisterRoutes(api, payrunHandler)
	}

	return nil
}
