package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"medconnect/config"
	"medconnect/cron"
	"medconnect/database"
	appointmentRepo "medconnect/database/repository/appointment"
	providerRepo "medconnect/database/repository/provider"
	"medconnect/handlers"
	"medconnect/metrics"
	"medconnect/middleware"
	"medconnect/routes"
	"medconnect/services/appointments"
	"medconnect/services/booking"
	"medconnect/services/location"
	"medconnect/services/notification"
	"medconnect/services/tasks"
	"medconnect/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const devJWTSecret = "medconnect-dev-secret"

type stores struct {
	providers    providerRepo.ProviderRepository
	appointments appointmentRepo.AppointmentRepository
	mongo        *mongo.Client
}

// openStores picks the catalog and appointment sink named by STORE_DRIVER.
func openStores(ctx context.Context, logger *zap.Logger) stores {
	if config.AppConfig.StoreDriver != "mongo" {
		logger.Info("Using in-memory provider catalog and appointment store")
		return stores{
			providers:    providerRepo.NewMemoryProviderRepo(providerRepo.MockCatalog()),
			appointments: appointmentRepo.NewMemoryAppointmentRepo(),
		}
	}

	if err := database.InitDB(); err != nil {
		logger.Fatal("Failed to initialize MongoDB", zap.Error(err))
	}
	db := database.Database()
	provRepo := providerRepo.NewMongoProviderRepo(db)
	apptRepo := appointmentRepo.NewMongoAppointmentRepo(db)
	if err := provRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create provider indexes", zap.Error(err))
	}
	if err := apptRepo.EnsureIndexes(ctx); err != nil {
		logger.Fatal("Failed to create appointment indexes", zap.Error(err))
	}
	seedCatalog(ctx, provRepo, logger)
	return stores{providers: provRepo, appointments: apptRepo, mongo: database.MongoClient}
}

// seedCatalog loads the demo providers into an empty catalog.
func seedCatalog(ctx context.Context, repo providerRepo.ProviderRepository, logger *zap.Logger) {
	existing, err := repo.GetAll(ctx)
	if err != nil {
		logger.Fatal("Failed to read provider catalog", zap.Error(err))
	}
	if len(existing) > 0 {
		return
	}
	for _, p := range providerRepo.MockCatalog() {
		if err := repo.Create(ctx, &p); err != nil {
			logger.Fatal("Failed to seed provider catalog", zap.String("providerId", p.ID), zap.Error(err))
		}
	}
	logger.Info("Seeded empty provider catalog", zap.Int("providers", len(providerRepo.MockCatalog())))
}

func newNotificationService(ctx context.Context, logger *zap.Logger) notification.NotificationService {
	var sender notification.Sender = notification.LogSender{Logger: logger}
	if config.AppConfig.Notifier == "fcm" {
		client, err := utils.NewFCMClient(ctx, config.AppConfig.FirebaseCredentialsFile)
		if err != nil {
			logger.Fatal("Failed to initialize Firebase messaging", zap.Error(err))
		}
		sender = &notification.FCMSender{Client: client, Logger: logger}
	}
	svc, err := notification.NewDefaultNotificationService(sender)
	if err != nil {
		logger.Fatal("Failed to initialize notification service", zap.Error(err))
	}
	return svc
}

func jwtSecret(logger *zap.Logger) []byte {
	if config.AppConfig.JWTSecret != "" {
		return []byte(config.AppConfig.JWTSecret)
	}
	if config.IsProduction() {
		logger.Fatal("JWT_SECRET must be set in production")
	}
	logger.Warn("JWT_SECRET not set; using the development secret")
	return []byte(devJWTSecret)
}

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	utils.InitRedis()
	st := openStores(ctx, logger)
	bookingMetrics := metrics.NewBookingMetrics(nil)
	notifier := newNotificationService(ctx, logger)

	// Reminder queue.
	queueOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
	queue := asynq.NewClient(queueOpt)
	defer queue.Close()
	reminders := &tasks.ReminderScheduler{
		Queue:    queue,
		LeadTime: config.AppConfig.ReminderLeadTime,
		Logger:   logger,
	}
	worker := cron.NewReminderWorker(queueOpt, &tasks.ReminderHandler{
		Appointments: st.appointments,
		Notifier:     notifier,
		Metrics:      bookingMetrics,
		Logger:       logger,
	}, logger)
	worker.Start()

	// services.
	matchingService := &booking.DefaultMatchingService{
		ProviderRepo:       st.providers,
		DefaultRadiusMiles: config.AppConfig.DefaultSearchRadiusMiles,
		Metrics:            bookingMetrics,
		Logger:             logger,
	}
	bookingService := &booking.DefaultBookingSessionService{
		Sessions:     booking.NewRedisSessionStore(utils.GetSessionCacheClient(), config.AppConfig.BookingSessionTTL),
		Providers:    st.providers,
		Appointments: st.appointments,
		Notifier:     notifier,
		Reminders:    reminders,
		Metrics:      bookingMetrics,
		Logger:       logger,
	}
	appointmentService := &appointments.DefaultAppointmentService{
		Appointments: st.appointments,
		Providers:    st.providers,
		Notifier:     notifier,
		Logger:       logger,
	}
	locationStore := location.NewRedisStore(utils.GetLocationCacheClient(), 0)
	geocoder := location.NewGeocoder(config.AppConfig.GoogleAPIKey, logger)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Providers:         handlers.NewProviderHandler(matchingService, st.providers, bookingService, locationStore),
		Booking:           handlers.NewBookingHandler(bookingService),
		Appointments:      handlers.NewAppointmentHandler(appointmentService),
		Location:          handlers.NewLocationHandler(geocoder, locationStore, bookingMetrics),
		JWTSecret:         jwtSecret(logger),
		MaxRequestsPerMin: config.AppConfig.MaxRequestsPerMin,
		Metrics:           bookingMetrics,
	}
	if config.AppConfig.IPGeolocationEnabled {
		handlerBundle.IPLocator = middleware.NewIPLocator(logger)
	}

	utils.StartHealthMonitor(ctx, 30*time.Second, map[string]*redis.Client{
		"sessions":  utils.GetSessionCacheClient(),
		"locations": utils.GetLocationCacheClient(),
	}, st.mongo)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	routes.RegisterRoutes(router, handlerBundle)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}
	go func() {
		logger.Info("Server starting", zap.String("port", config.AppConfig.AppPort), zap.String("store", config.AppConfig.StoreDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	worker.Shutdown()
	if err := database.Disconnect(shutdownCtx); err != nil {
		logger.Error("Failed to disconnect MongoDB", zap.Error(err))
	}
	logger.Info("Server exited")
}
