package main

import (
	"alcyxob/fitness-coach/internal/api"
	"alcyxob/fitness-coach/internal/cache"
	"alcyxob/fitness-coach/internal/config"
	"alcyxob/fitness-coach/internal/logging"
	"alcyxob/fitness-coach/internal/progression"
	"alcyxob/fitness-coach/internal/repository/mongo"
	"alcyxob/fitness-coach/internal/service"
	"alcyxob/fitness-coach/internal/storage"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// @title Fitness Coach API
// @version 1.0
// @description Routine import, workout schedules and flexible plan progression.
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("could not load config: %s", err)
	}
	logging.Setup(cfg.Log)
	log.Info("starting fitness coach server ...")

	location, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatalf("invalid schedule timezone %q: %s", cfg.Schedule.Timezone, err)
	}

	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %s", err)
	}
	defer func() {
		log.Info("disconnecting MongoDB ...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Errorf("failed to disconnect MongoDB: %s", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Infof("connected to database %s", cfg.Database.Name)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Info("index creation completed")
	}()

	var fileStorage storage.FileStorage
	if cfg.S3.BucketName != "" {
		fileStorage, err = storage.NewS3Storage(context.Background(), cfg.S3)
		if err != nil {
			log.Fatalf("failed to initialize S3 storage: %s", err)
		}
	} else {
		log.Warn("s3.bucket_name not set, imported routine text will not be archived")
	}

	transactor := mongo.NewTransactor(dbClient, cfg.Database.Transactions)
	if !cfg.Database.Transactions {
		log.Warn("database transactions disabled, a failed routine import may leave partial data")
	}

	userRepo := mongo.NewMongoUserRepository(appDB)
	routineRepo := mongo.NewMongoRoutineRepository(appDB)
	dayRepo := mongo.NewMongoRoutineDayRepository(appDB)
	exerciseRepo := mongo.NewMongoExerciseRepository(appDB)
	assignmentRepo := mongo.NewMongoAssignmentRepository(appDB)
	scheduleRepo := mongo.NewMongoScheduleDayRepository(appDB)
	sessionRepo := mongo.NewMongoWorkoutSessionRepository(appDB)

	dayCounts := cache.NewDayCountCache(dayRepo, cfg.Cache.SizeMB, cfg.Cache.DayCountTTL)
	engine := progression.NewEngine(sessionRepo, assignmentRepo, dayCounts, cfg.Progression.MaxAttempts)

	services := api.Services{
		Auth:       service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Routine:    service.NewRoutineService(transactor, routineRepo, dayRepo, exerciseRepo, fileStorage),
		Assignment: service.NewAssignmentService(transactor, routineRepo, dayRepo, exerciseRepo, assignmentRepo, scheduleRepo, location, cfg.Schedule.HorizonWeeks),
		Session:    service.NewSessionService(sessionRepo, assignmentRepo, scheduleRepo, engine, location),
		Calendar:   service.NewCalendarService(assignmentRepo, routineRepo, dayRepo, scheduleRepo, location, cfg.Schedule.HorizonWeeks),
	}

	if log.GetLevel() < log.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), api.RequestLogger())
	api.SetupRoutes(router, cfg.JWT.Secret, services)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Infof("server listening on %s", cfg.Server.Address)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen and serve: %s", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server ...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Errorf("server forced to shutdown: %s", err)
	}
	log.Info("server exiting")
}
