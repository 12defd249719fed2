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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/cancel_appointment"
	createAPIKeyHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/create_api_key"
	createAppointmentHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/create_appointment"
	createCouponHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/create_coupon"
	createServiceHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/create_service"
	deactivateCouponHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/deactivate_coupon"
	deleteServiceHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/delete_service"
	getAppointmentHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/get_available_slots"
	getServiceHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/get_service"
	getStoreAppointmentsHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/get_store_appointments"
	getStoreConfigHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/get_store_config"
	listCouponsHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/list_coupons"
	listServicesHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/list_services"
	rescheduleAppointmentHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/reschedule_appointment"
	updateAppointmentStatusHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/update_appointment_status"
	updateCouponHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/update_coupon"
	updateServiceHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/update_service"
	updateStoreConfigHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/update_store_config"
	validateCouponHandler "github.com/avmos/SB-AppointmentService/internal/api/handlers/validate_coupon"
	"github.com/avmos/SB-AppointmentService/internal/api/middleware"
	"github.com/avmos/SB-AppointmentService/internal/config"
	apikeyRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/apikey"
	appointmentRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/appointment"
	auditlogRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/auditlog"
	couponRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/coupon"
	serviceRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/service"
	storeRepo "github.com/avmos/SB-AppointmentService/internal/infra/storage/store"
	"github.com/avmos/SB-AppointmentService/internal/integrations/notify"
	apikeysService "github.com/avmos/SB-AppointmentService/internal/service/apikeys"
	appointmentsService "github.com/avmos/SB-AppointmentService/internal/service/appointments"
	couponsService "github.com/avmos/SB-AppointmentService/internal/service/coupons"
	servicesService "github.com/avmos/SB-AppointmentService/internal/service/services"
	storesService "github.com/avmos/SB-AppointmentService/internal/service/stores"
	createAppointmentUC "github.com/avmos/SB-AppointmentService/internal/usecase/create_appointment"
	getAvailableSlotsUC "github.com/avmos/SB-AppointmentService/internal/usecase/get_available_slots"
	rescheduleAppointmentUC "github.com/avmos/SB-AppointmentService/internal/usecase/reschedule_appointment"
	"github.com/avmos/SB-AppointmentService/pkg/dbmetrics"
	"github.com/avmos/SB-AppointmentService/pkg/logger"
	"github.com/avmos/SB-AppointmentService/pkg/metrics"
	"github.com/avmos/SB-AppointmentService/pkg/simpletxmanager"
	"github.com/avmos/SB-AppointmentService/pkg/txmanager"
)

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

	log.Info("Starting SB-AppointmentService...")
	log.Info("Configuration loaded from config.toml")

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	var wrappedDB *dbmetrics.DB
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	// Подключаемся к базе данных
	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Настраиваем connection pool
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}
	log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	// Инициализируем отправку событий-триггеров уведомлений
	var notifier notify.Notifier
	if cfg.Notifications.Enabled {
		kafkaNotifier, err := notify.NewKafkaNotifier(cfg.Notifications.Brokers, cfg.Notifications.Topic, log)
		if err != nil {
			log.Fatal("Failed to initialize kafka notifier: %v", err)
		}
		notifier = kafkaNotifier
		log.Info("Kafka notifier initialized (brokers=%v, topic=%s)",
			cfg.Notifications.Brokers, cfg.Notifications.Topic)
	} else {
		notifier = notify.NewNoopNotifier()
		log.Info("Notifications disabled, using noop notifier")
	}
	defer notifier.Close()

	// Инициализируем репозитории (с метриками или без)
	var (
		appointmentRepository *appointmentRepo.Repository
		storeRepository       *storeRepo.Repository
		serviceRepository     *serviceRepo.Repository
		couponRepository      *couponRepo.Repository
		apikeyRepository      *apikeyRepo.Repository
		auditlogRepository    *auditlogRepo.Repository
	)

	// Интерфейс для transaction manager (используется в usecases и сервисах)
	type TxManager interface {
		Do(ctx context.Context, fn func(ctx context.Context) error) error
		DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	}
	var txMgr TxManager

	if cfg.Metrics.Enabled {
		wrappedDB = dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		storeRepository = storeRepo.NewRepository(wrappedDB)
		serviceRepository = serviceRepo.NewRepository(wrappedDB)
		couponRepository = couponRepo.NewRepository(wrappedDB)
		apikeyRepository = apikeyRepo.NewRepository(wrappedDB)
		auditlogRepository = auditlogRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		storeRepository = storeRepo.NewRepository(db)
		serviceRepository = serviceRepo.NewRepository(db)
		couponRepository = couponRepo.NewRepository(db)
		apikeyRepository = apikeyRepo.NewRepository(db)
		auditlogRepository = auditlogRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Инициализируем сервисы
	appointmentSvc := appointmentsService.NewService(
		appointmentRepository,
		storeRepository,
		notifier,
		log,
	)
	storeSvc := storesService.NewService(
		storeRepository,
		txMgr,
		log,
	)
	catalogSvc := servicesService.NewService(
		serviceRepository,
		appointmentRepository,
		storeRepository,
		log,
	)
	couponSvc := couponsService.NewService(
		couponRepository,
		storeRepository,
		log,
	)
	apikeySvc := apikeysService.NewService(
		apikeyRepository,
		log,
	)

	// Инициализируем use cases
	createAppointmentUseCase := createAppointmentUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		storeRepository,
		couponRepository,
		txMgr,
		notifier,
		log,
	)

	rescheduleAppointmentUseCase := rescheduleAppointmentUC.NewUseCase(
		appointmentRepository,
		storeRepository,
		txMgr,
		notifier,
		log,
	)

	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		serviceRepository,
		storeRepository,
		log,
	)

	// Инициализируем handlers
	createAppointment := createAppointmentHandler.NewHandler(createAppointmentUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleAppointmentUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(appointmentSvc, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getStoreAppointments := getStoreAppointmentsHandler.NewHandler(appointmentSvc, log)
	getStoreConfig := getStoreConfigHandler.NewHandler(storeSvc, log)
	updateStoreConfig := updateStoreConfigHandler.NewHandler(storeSvc, log)
	createService := createServiceHandler.NewHandler(catalogSvc, log)
	listServices := listServicesHandler.NewHandler(catalogSvc, log)
	getService := getServiceHandler.NewHandler(catalogSvc, log)
	updateService := updateServiceHandler.NewHandler(catalogSvc, log)
	deleteService := deleteServiceHandler.NewHandler(catalogSvc, log)
	createCoupon := createCouponHandler.NewHandler(couponSvc, log)
	listCoupons := listCouponsHandler.NewHandler(couponSvc, log)
	updateCoupon := updateCouponHandler.NewHandler(couponSvc, log)
	deactivateCoupon := deactivateCouponHandler.NewHandler(couponSvc, log)
	validateCoupon := validateCouponHandler.NewHandler(couponSvc, log)
	createAPIKey := createAPIKeyHandler.NewHandler(apikeySvc, log)

	// Middleware аутентификации и аудита
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret, apikeyRepository, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditlogRepository, log)

	// Настраиваем роутер
	r := mux.NewRouter()

	// Добавляем metrics middleware (если метрики включены)
	if cfg.Metrics.Enabled {
		r.Use(middleware.MetricsMiddleware(metricsCollector))
		log.Info("HTTP metrics middleware enabled")
	}

	// Metrics endpoint (публичный, без аутентификации)
	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	// Health endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods(http.MethodGet)

	// API prefix: учетные данные разбираются на всех маршрутах,
	// keyed-запросы журналируются
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(authMiddleware.Authenticate)
	api.Use(auditMiddleware.Record)

	// ============================================================
	// PUBLIC ROUTES (гостевой доступ разрешен)
	// ============================================================

	// Создание записи: гости создают pending, доверенные вызывающие
	// могут создавать сразу confirmed
	api.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)

	// Доступные слоты услуги на день
	api.HandleFunc("/stores/{storeId}/services/{serviceId}/available-slots",
		getAvailableSlots.Handle).Methods(http.MethodGet)

	// Календарная конфигурация магазина
	api.HandleFunc("/stores/{storeId}/config", getStoreConfig.Handle).Methods(http.MethodGet)

	// Каталог услуг магазина
	api.HandleFunc("/stores/{storeId}/services", listServices.Handle).Methods(http.MethodGet)
	api.HandleFunc("/stores/{storeId}/services/{serviceId}", getService.Handle).Methods(http.MethodGet)

	// Предварительная проверка купона (форма бронирования)
	api.HandleFunc("/stores/{storeId}/coupons/validate", validateCoupon.Handle).Methods(http.MethodPost)

	// ============================================================
	// PROTECTED ROUTES (требуют сессионный токен или API ключ)
	// ============================================================

	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.RequireAuth)

	// --- Записи ---
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPatch)

	// --- Управление магазином ---
	protected.HandleFunc("/stores/{storeId}/appointments", getStoreAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/stores/{storeId}/config", updateStoreConfig.Handle).Methods(http.MethodPut)

	// --- Каталог услуг ---
	protected.HandleFunc("/stores/{storeId}/services", createService.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/stores/{storeId}/services/{serviceId}", updateService.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/stores/{storeId}/services/{serviceId}", deleteService.Handle).Methods(http.MethodDelete)

	// --- Купоны ---
	protected.HandleFunc("/stores/{storeId}/coupons", createCoupon.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/stores/{storeId}/coupons", listCoupons.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/stores/{storeId}/coupons/{couponId}", updateCoupon.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/stores/{storeId}/coupons/{couponId}", deactivateCoupon.Handle).Methods(http.MethodDelete)

	// --- Интеграционные ключи (только администратор) ---
	protected.HandleFunc("/api-keys", createAPIKey.Handle).Methods(http.MethodPost)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	// Останавливаем сбор метрик connection pool
	if cfg.Metrics.Enabled {
		close(stopMetricsCh)
		log.Info("Metrics collection stopped")
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
