package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/dentalclinic/internal/adapters/database"
	"github.com/zatekoja/dentalclinic/internal/adapters/locking"
	"github.com/zatekoja/dentalclinic/internal/api/handlers"
	"github.com/zatekoja/dentalclinic/internal/api/routes"
	"github.com/zatekoja/dentalclinic/internal/application/services"
	"github.com/zatekoja/dentalclinic/internal/domain/entities"
	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/clients/redis"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/notifications"
	"github.com/zatekoja/dentalclinic/internal/infrastructure/observability"
	"github.com/zatekoja/dentalclinic/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(observability.LoggerOptions{Service: cfg.OTEL.ServiceName, Clinic: cfg.Clinic.Name, Env: cfg.Log.Env, Level: cfg.Log.Level})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)

	loc, err := cfg.Clinic.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid clinic timezone")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize PostgreSQL client")
	}
	defer pgClient.Close()
	log.Info().Str("host", cfg.Database.Host).Msg("PostgreSQL client initialized")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(pgClient); err != nil {
			log.Fatal().Err(err).Msg("Failed to apply database migrations")
		}
	}

	// The per-day booking lock is shared across instances only through Redis
	var locker providers.SlotLocker
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis client")
		}
		defer redisClient.Close()
		locker = locking.NewRedisLocker(redisClient, cfg.Clinic.LockTTL, cfg.Clinic.LockWait)
		log.Info().Str("addr", cfg.Redis.RedisAddr()).Msg("Booking lock backed by Redis")
	} else {
		locker = locking.NewLocalLocker(cfg.Clinic.LockWait)
		log.Warn().Msg("Redis disabled; booking lock is process-local")
	}

	var sender providers.MessageSender
	if cfg.Evolution.URL != "" {
		evolution, err := notifications.NewEvolutionSender(&cfg.Evolution)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize WhatsApp gateway")
		}
		sender = evolution
	} else {
		log.Warn().Msg("EVOLUTION_API_URL is not set; WhatsApp confirmations disabled")
	}

	var webhook providers.WebhookNotifier
	if cfg.Webhook.URL != "" {
		notifier, err := notifications.NewWebhookNotifier(&cfg.Webhook)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize automation webhook")
		}
		webhook = notifier
	} else {
		log.Warn().Msg("N8N_WEBHOOK_URL is not set; appointment events disabled")
	}

	// Initialize adapters
	patientAdapter := database.NewPatientAdapter(pgClient)
	appointmentAdapter := database.NewAppointmentAdapter(pgClient)

	// Initialize services
	hours := entities.WorkingHours{
		OpenHour:    cfg.Clinic.OpenHour,
		CloseHour:   cfg.Clinic.CloseHour,
		SlotMinutes: cfg.Clinic.SlotMinutes,
	}
	notificationService := services.NewNotificationService(sender, webhook, cfg.Clinic.Name, loc, metrics)
	availabilityService := services.NewAvailabilityService(appointmentAdapter, hours, loc, metrics)
	bookingService := services.NewBookingService(patientAdapter, appointmentAdapter, locker, notificationService, loc, metrics)
	appointmentService := services.NewAppointmentService(appointmentAdapter, notificationService, loc, metrics)
	statisticsService := services.NewStatisticsService(patientAdapter, appointmentAdapter, loc)

	// Initialize handlers
	router := routes.NewRouter(
		handlers.NewAIHandler(availabilityService, bookingService),
		handlers.NewPatientHandler(bookingService),
		handlers.NewAppointmentHandler(appointmentService, bookingService),
		handlers.NewStatisticsHandler(statisticsService),
		handlers.NewWebhookHandler(),
		metrics,
		registry,
		cfg.Server.AllowedOrigins,
	)

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().
			Str("addr", serverAddr).
			Str("timezone", loc.String()).
			Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	if err := notificationService.Wait(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("Dropped pending webhook events")
	}

	log.Info().Msg("Server stopped")
}
