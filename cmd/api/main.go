package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dentalreserve/clinic-api/internal/config"
	"github.com/dentalreserve/clinic-api/internal/email"
	"github.com/dentalreserve/clinic-api/internal/handler"
	appointmentHandler "github.com/dentalreserve/clinic-api/internal/handler/appointment"
	authHandler "github.com/dentalreserve/clinic-api/internal/handler/auth"
	patientHandler "github.com/dentalreserve/clinic-api/internal/handler/patient"
	practitionerHandler "github.com/dentalreserve/clinic-api/internal/handler/practitioner"
	"github.com/dentalreserve/clinic-api/internal/middleware"
	redisclient "github.com/dentalreserve/clinic-api/internal/redis"
	"github.com/dentalreserve/clinic-api/internal/repository/postgres"
	"github.com/dentalreserve/clinic-api/internal/router"
	appointmentService "github.com/dentalreserve/clinic-api/internal/service/appointment"
	authService "github.com/dentalreserve/clinic-api/internal/service/auth"
	patientService "github.com/dentalreserve/clinic-api/internal/service/patient"
	practitionerService "github.com/dentalreserve/clinic-api/internal/service/practitioner"
	pkgauth "github.com/dentalreserve/clinic-api/pkg/auth"
	"github.com/dentalreserve/clinic-api/pkg/logger"
	"github.com/dentalreserve/clinic-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	appointmentRepo := postgres.NewAppointmentRepository(db)
	patientRepo := postgres.NewPatientRepository(db)
	practitionerRepo := postgres.NewPractitionerRepository(db)
	waitlistRepo := postgres.NewWaitlistRepository(db)
	userRepo := postgres.NewUserRepository(db)

	// Optional slot locker backed by Redis
	var locker redisclient.Locker
	if cfg.Redis.Enabled {
		client, err := redisclient.NewClient(cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer client.Close()
		locker = redisclient.NewSlotLocker(client, 5*time.Second)
	}

	// Optional confirmation mail
	var mailer email.Service
	if cfg.SMTP.Enabled {
		mailer = email.NewSMTPService(cfg.SMTP)
	}

	appMetrics := metrics.NewMetrics("clinic_api", "scheduler")

	// Initialize services
	jwtSvc := pkgauth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	authSvc := authService.NewService(userRepo, jwtSvc)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, waitlistRepo, locker, mailer, appMetrics)
	patientSvc := patientService.NewService(patientRepo, appointmentRepo)
	practitionerSvc := practitionerService.NewService(practitionerRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc)
	appointmentH := appointmentHandler.NewHandler(appointmentSvc)
	patientH := patientHandler.NewHandler(patientSvc)
	practitionerH := practitionerHandler.NewHandler(practitionerSvc)

	// Setup router
	r := router.NewRouter(
		authMiddleware,
		authH,
		appointmentH,
		patientH,
		practitionerH,
		h,
		appLogger,
		router.RouterConfig{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			CORSConfig:     middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
