package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	cancelBookingHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/cancel_booking"
	confirmBookingHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/confirm_booking"
	createBookingHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/create_booking"
	getBookingHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/get_booking"
	getQuoteHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/get_quote"
	getAvailabilityHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/get_session_availability"
	listSessionsHandler "github.com/avlasov/TMS-InventoryService/internal/api/handlers/list_open_sessions"
	"github.com/avlasov/TMS-InventoryService/internal/api/middleware"
	"github.com/avlasov/TMS-InventoryService/internal/config"
	"github.com/avlasov/TMS-InventoryService/internal/events"
	bookingRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/booking"
	holdRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/hold"
	policyRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/policy"
	priceRuleRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/pricerule"
	reservationRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/reservation"
	sessionRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/session"
	variantRepo "github.com/avlasov/TMS-InventoryService/internal/infra/storage/variant"
	paymentClient "github.com/avlasov/TMS-InventoryService/internal/integrations/paymentservice"
	capacityService "github.com/avlasov/TMS-InventoryService/internal/service/capacity"
	holdsService "github.com/avlasov/TMS-InventoryService/internal/service/holds"
	policyService "github.com/avlasov/TMS-InventoryService/internal/service/policy"
	pricingService "github.com/avlasov/TMS-InventoryService/internal/service/pricing"
	cancelBookingUC "github.com/avlasov/TMS-InventoryService/internal/usecase/cancel_booking"
	confirmBookingUC "github.com/avlasov/TMS-InventoryService/internal/usecase/confirm_booking"
	createBookingUC "github.com/avlasov/TMS-InventoryService/internal/usecase/create_booking"
	getBookingUC "github.com/avlasov/TMS-InventoryService/internal/usecase/get_booking"
	getQuoteUC "github.com/avlasov/TMS-InventoryService/internal/usecase/get_quote"
	getAvailabilityUC "github.com/avlasov/TMS-InventoryService/internal/usecase/get_session_availability"
	listSessionsUC "github.com/avlasov/TMS-InventoryService/internal/usecase/list_open_sessions"
	"github.com/avlasov/TMS-InventoryService/internal/worker/sweeper"
	"github.com/avlasov/TMS-InventoryService/pkg/dbmetrics"
	"github.com/avlasov/TMS-InventoryService/pkg/logger"
	"github.com/avlasov/TMS-InventoryService/pkg/metrics"
	"github.com/avlasov/TMS-InventoryService/pkg/simpletxmanager"
	"github.com/avlasov/TMS-InventoryService/pkg/txmanager"
)

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting TMS-InventoryService...")

	// Метрики регистрируются всегда; endpoint и обёртка БД — по конфигу
	metricsCollector := metrics.New(cfg.Metrics.ServiceName)
	stopMetricsCh := make(chan struct{})

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Применяем миграции
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db, cfg.Database.MigrationsDir); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}
	log.Info("Migrations applied successfully")

	// Публикация доменных событий
	var publisher events.Publisher = events.NopPublisher{}
	if cfg.Events.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Events.RedisAddr,
			Password: cfg.Events.RedisPassword,
			DB:       cfg.Events.RedisDB,
		})
		defer redisClient.Close()
		publisher = events.NewRedisPublisher(redisClient, cfg.Events.ChannelPrefix)
		log.Info("Redis event publisher enabled (addr=%s prefix=%s)", cfg.Events.RedisAddr, cfg.Events.ChannelPrefix)
	}

	// Клиент платёжного сервиса
	payments := paymentClient.NewClient(
		cfg.PaymentService.URL,
		time.Duration(cfg.PaymentService.Timeout)*time.Second,
		log,
	)

	// Репозитории и transaction manager (с метриками или без)
	var (
		sessions     *sessionRepo.Repository
		reservations *reservationRepo.Repository
		holds        *holdRepo.Repository
		bookings     *bookingRepo.Repository
		variants     *variantRepo.Repository
		priceRules   *priceRuleRepo.Repository
		policies     *policyRepo.Repository
		txMgr        *txmanager.TransactionManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		sessions = sessionRepo.NewRepository(wrappedDB)
		reservations = reservationRepo.NewRepository(wrappedDB)
		holds = holdRepo.NewRepository(wrappedDB)
		bookings = bookingRepo.NewRepository(wrappedDB)
		variants = variantRepo.NewRepository(wrappedDB)
		priceRules = priceRuleRepo.NewRepository(wrappedDB)
		policies = policyRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
		log.Info("Database metrics collection started")
	} else {
		sessions = sessionRepo.NewRepository(db)
		reservations = reservationRepo.NewRepository(db)
		holds = holdRepo.NewRepository(db)
		bookings = bookingRepo.NewRepository(db)
		variants = variantRepo.NewRepository(db)
		priceRules = priceRuleRepo.NewRepository(db)
		policies = policyRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Сервисы
	capacitySvc := capacityService.NewService(sessions, reservations, variants, txMgr, log)
	holdsSvc := holdsService.NewService(holds, capacitySvc, txMgr, publisher, metricsCollector, realClock{}, log)
	pricingSvc := pricingService.NewService(variants, priceRules, log)
	policySvc := policyService.NewService(policies, log)

	holdTTL := time.Duration(cfg.Holds.TTLMinutes) * time.Minute

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		bookings, sessions, variants, pricingSvc, holdsSvc, metricsCollector, txMgr, holdTTL, log)
	confirmBookingUseCase := confirmBookingUC.NewUseCase(
		bookings, holdsSvc, payments, publisher, metricsCollector, txMgr, log)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		bookings, sessions, policySvc, capacitySvc, holdsSvc, publisher, metricsCollector, txMgr, log)
	getQuoteUseCase := getQuoteUC.NewUseCase(pricingSvc, log)
	getAvailabilityUseCase := getAvailabilityUC.NewUseCase(capacitySvc, log)
	listSessionsUseCase := listSessionsUC.NewUseCase(sessions, variants, log)
	getBookingUseCase := getBookingUC.NewUseCase(bookings, log)

	// Handlers
	createBooking := createBookingHandler.NewHandler(createBookingUseCase, log)
	confirmBooking := confirmBookingHandler.NewHandler(confirmBookingUseCase, log)
	cancelBooking := cancelBookingHandler.NewHandler(cancelBookingUseCase, log)
	getQuote := getQuoteHandler.NewHandler(getQuoteUseCase, log)
	getAvailability := getAvailabilityHandler.NewHandler(getAvailabilityUseCase, log)
	listSessions := listSessionsHandler.NewHandler(listSessionsUseCase, log)
	getBooking := getBookingHandler.NewHandler(getBookingUseCase, log)

	// Роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Каталог и цены
	api.HandleFunc("/quotes", getQuote.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions", listSessions.Handle).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/availability", getAvailability.Handle).Methods(http.MethodGet)

	// Бронирования
	api.HandleFunc("/bookings", createBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", getBooking.Handle).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/confirm", confirmBooking.Handle).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", cancelBooking.Handle).Methods(http.MethodPost)

	// Sweep просроченных холдов
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweep := sweeper.New(
		holdsSvc,
		bookings,
		publisher,
		metricsCollector,
		time.Duration(cfg.Holds.SweepIntervalSeconds)*time.Second,
		cfg.Holds.SweepBatchSize,
		log,
	)
	go sweep.Run(sweepCtx)

	// HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	stopSweep()
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	log.Info("Server stopped gracefully")
}
