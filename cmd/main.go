package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cancelAppointmentHandler "github.com/glossworks/booking-engine/internal/api/handlers/cancel_appointment"
	createAppointmentHandler "github.com/glossworks/booking-engine/internal/api/handlers/create_appointment"
	createBlockedIntervalHandler "github.com/glossworks/booking-engine/internal/api/handlers/create_blocked_interval"
	deleteBlockedIntervalHandler "github.com/glossworks/booking-engine/internal/api/handlers/delete_blocked_interval"
	getAppointmentHandler "github.com/glossworks/booking-engine/internal/api/handlers/get_appointment"
	getAvailableSlotsHandler "github.com/glossworks/booking-engine/internal/api/handlers/get_available_slots"
	getBusinessAppointmentsHandler "github.com/glossworks/booking-engine/internal/api/handlers/get_business_appointments"
	getCustomerAppointmentsHandler "github.com/glossworks/booking-engine/internal/api/handlers/get_customer_appointments"
	getScheduleHandler "github.com/glossworks/booking-engine/internal/api/handlers/get_schedule"
	rescheduleAppointmentHandler "github.com/glossworks/booking-engine/internal/api/handlers/reschedule_appointment"
	setShiftOverrideHandler "github.com/glossworks/booking-engine/internal/api/handlers/set_shift_override"
	updateBookingConfigHandler "github.com/glossworks/booking-engine/internal/api/handlers/update_booking_config"
	updateBusinessHoursHandler "github.com/glossworks/booking-engine/internal/api/handlers/update_business_hours"
	updateAppointmentStatusHandler "github.com/glossworks/booking-engine/internal/api/handlers/update_appointment_status"
	updateStaffShiftsHandler "github.com/glossworks/booking-engine/internal/api/handlers/update_staff_shifts"
	"github.com/glossworks/booking-engine/internal/api/middleware"
	"github.com/glossworks/booking-engine/internal/config"
	"github.com/glossworks/booking-engine/internal/events"
	appointmentRepo "github.com/glossworks/booking-engine/internal/infra/storage/appointment"
	outboxRepo "github.com/glossworks/booking-engine/internal/infra/storage/outbox"
	scheduleRepo "github.com/glossworks/booking-engine/internal/infra/storage/schedule"
	catalogClient "github.com/glossworks/booking-engine/internal/integrations/catalogservice"
	appointmentsService "github.com/glossworks/booking-engine/internal/service/appointments"
	scheduleService "github.com/glossworks/booking-engine/internal/service/schedule"
	cancelBookingUC "github.com/glossworks/booking-engine/internal/usecase/cancel_booking"
	createBookingUC "github.com/glossworks/booking-engine/internal/usecase/create_booking"
	getAvailableSlotsUC "github.com/glossworks/booking-engine/internal/usecase/get_available_slots"
	rescheduleBookingUC "github.com/glossworks/booking-engine/internal/usecase/reschedule_booking"
	"github.com/glossworks/booking-engine/pkg/dbmetrics"
	"github.com/glossworks/booking-engine/pkg/logger"
	"github.com/glossworks/booking-engine/pkg/metrics"
	"github.com/glossworks/booking-engine/pkg/simpletxmanager"
	"github.com/glossworks/booking-engine/pkg/txmanager"
)

// TxManager is the transaction surface shared by use cases and services.
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting booking-engine...")

	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

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
	log.Info("Connected to database (host=%s, port=%d, db=%s)",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

	catalog := catalogClient.NewClient(
		cfg.CatalogService.URL,
		time.Duration(cfg.CatalogService.Timeout)*time.Second,
		log,
	)
	log.Info("Catalog client initialized (url=%s, timeout=%ds)", cfg.CatalogService.URL, cfg.CatalogService.Timeout)

	var (
		appointmentRepository *appointmentRepo.Repository
		scheduleRepository    *scheduleRepo.Repository
		outboxRepository      *outboxRepo.Repository
		txMgr                 TxManager
	)

	if cfg.Metrics.Enabled {
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, cfg.Metrics.ServiceName, stopMetricsCh)
		log.Info("Database metrics collection started")

		appointmentRepository = appointmentRepo.NewRepository(wrappedDB)
		scheduleRepository = scheduleRepo.NewRepository(wrappedDB)
		outboxRepository = outboxRepo.NewRepository(wrappedDB)
		txMgr = txmanager.NewTransactionManager(wrappedDB)
	} else {
		appointmentRepository = appointmentRepo.NewRepository(db)
		scheduleRepository = scheduleRepo.NewRepository(db)
		outboxRepository = outboxRepo.NewRepository(db)
		txMgr = simpletxmanager.NewTransactionManager(db)
	}

	// Services
	appointmentSvc := appointmentsService.NewService(appointmentRepository, txMgr, log)
	scheduleSvc := scheduleService.NewService(scheduleRepository, txMgr, log)

	// Use cases
	createBookingUseCase := createBookingUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		outboxRepository,
		catalog,
		txMgr,
		log,
	)
	getAvailableSlotsUseCase := getAvailableSlotsUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		catalog,
		log,
	)
	cancelBookingUseCase := cancelBookingUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		outboxRepository,
		txMgr,
		log,
	)
	rescheduleBookingUseCase := rescheduleBookingUC.NewUseCase(
		appointmentRepository,
		scheduleRepository,
		outboxRepository,
		txMgr,
		log,
	)

	// Outbox relay
	var relay *events.Relay
	if cfg.Kafka.Enabled {
		publisher := events.NewKafkaPublisher(strings.Split(cfg.Kafka.Brokers, ","))
		defer publisher.Close()

		relay = events.NewRelay(outboxRepository, publisher, txMgr, log, events.RelayOptions{
			PollInterval: time.Duration(cfg.Kafka.PollInterval) * time.Millisecond,
			BatchSize:    cfg.Kafka.BatchSize,
			MaxRetries:   cfg.Kafka.MaxRetries,
		})
		relay.Start(context.Background())
		log.Info("Outbox relay started (brokers=%s, poll=%dms)", cfg.Kafka.Brokers, cfg.Kafka.PollInterval)
	}

	// Handlers
	createAppointment := createAppointmentHandler.NewHandler(createBookingUseCase, log)
	getAvailableSlots := getAvailableSlotsHandler.NewHandler(getAvailableSlotsUseCase, log)
	getAppointment := getAppointmentHandler.NewHandler(appointmentSvc, log)
	cancelAppointment := cancelAppointmentHandler.NewHandler(cancelBookingUseCase, log)
	rescheduleAppointment := rescheduleAppointmentHandler.NewHandler(rescheduleBookingUseCase, log)
	updateAppointmentStatus := updateAppointmentStatusHandler.NewHandler(appointmentSvc, log)
	getCustomerAppointments := getCustomerAppointmentsHandler.NewHandler(appointmentSvc, log)
	getBusinessAppointments := getBusinessAppointmentsHandler.NewHandler(appointmentSvc, log)
	getSchedule := getScheduleHandler.NewHandler(scheduleSvc, log)
	updateBusinessHours := updateBusinessHoursHandler.NewHandler(scheduleSvc, log)
	updateStaffShifts := updateStaffShiftsHandler.NewHandler(scheduleSvc, log)
	setShiftOverride := setShiftOverrideHandler.NewHandler(scheduleSvc, log)
	createBlockedInterval := createBlockedIntervalHandler.NewHandler(scheduleSvc, log)
	deleteBlockedInterval := deleteBlockedIntervalHandler.NewHandler(scheduleSvc, log)
	updateBookingConfig := updateBookingConfigHandler.NewHandler(scheduleSvc, log)

	// Router
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics(metricsCollector))
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	api := r.PathPrefix("/api/v1").Subrouter()

	// Public routes
	api.HandleFunc("/businesses/{businessId}/slots", getAvailableSlots.Handle).Methods(http.MethodGet)
	api.HandleFunc("/businesses/{businessId}/schedule", getSchedule.Handle).Methods(http.MethodGet)

	// Protected routes (require X-User-ID header)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.Auth)

	// Appointments
	protected.HandleFunc("/appointments", createAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}", getAppointment.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/cancel", cancelAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/reschedule", rescheduleAppointment.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/appointments/{appointmentId}/reschedules", getAppointment.HandleRescheduleHistory).Methods(http.MethodGet)
	protected.HandleFunc("/appointments/{appointmentId}/status", updateAppointmentStatus.Handle).Methods(http.MethodPatch)
	protected.HandleFunc("/customers/me/appointments", getCustomerAppointments.Handle).Methods(http.MethodGet)

	// Business administration
	protected.HandleFunc("/businesses/{businessId}/appointments", getBusinessAppointments.Handle).Methods(http.MethodGet)
	protected.HandleFunc("/businesses/{businessId}/calendar", updateBusinessHours.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/staff/{staffId}/shift", updateStaffShifts.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/staff/{staffId}/overrides", setShiftOverride.Handle).Methods(http.MethodPut)
	protected.HandleFunc("/businesses/{businessId}/blocked-intervals", createBlockedInterval.Handle).Methods(http.MethodPost)
	protected.HandleFunc("/businesses/{businessId}/blocked-intervals/{intervalId}", deleteBlockedInterval.Handle).Methods(http.MethodDelete)
	protected.HandleFunc("/businesses/{businessId}/config", updateBookingConfig.Handle).Methods(http.MethodPut)

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	if relay != nil {
		relay.Stop()
		log.Info("Outbox relay stopped")
	}
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
