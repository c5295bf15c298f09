package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/each4all/shinchon-saessaks-sub000/internal/api"
	"github.com/each4all/shinchon-saessaks-sub000/internal/config"
	"github.com/each4all/shinchon-saessaks-sub000/internal/content"
	"github.com/each4all/shinchon-saessaks-sub000/internal/db"
	"github.com/each4all/shinchon-saessaks-sub000/internal/db/models"
	"github.com/each4all/shinchon-saessaks-sub000/internal/services"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/logger"
	"github.com/each4all/shinchon-saessaks-sub000/pkg/metrics"
)

func main() {
	cfg := config.InitializeDefaultConfig()

	zapLogger, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	config.LogConfig(zapLogger)

	database, err := db.Initialize(cfg)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}

	metricsCollector := metrics.NewMetricsCollector()

	if err := seedDatabase(database, zapLogger); err != nil {
		zapLogger.Fatal("Failed to seed database", zap.Error(err))
	}

	sessionService := services.NewSessionService(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, zapLogger)
	viewerService := services.NewViewerService(database, zapLogger)
	repos := content.NewRepositories(database, zapLogger, metricsCollector)

	router := api.NewRouter(zapLogger, metricsCollector, sessionService, viewerService, repos, database)
	router.SetupRoutes()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Server.Port
	}
	go func() {
		if err := router.Run(":" + port); err != nil {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()
	zapLogger.Info("Server started", zap.String("port", port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	sqlDB, err := db.DB.DB()
	if err == nil {
		sqlDB.Close()
	}
	zapLogger.Info("Server gracefully stopped")
}

func seedDatabase(database *gorm.DB, logger *zap.Logger) error {
	var count int64
	database.Model(&models.User{}).Count(&count)
	if count > 0 {
		logger.Info("Database already seeded, skipping")
		return nil
	}
	logger.Info("Seeding database with initial data")

	classrooms := []models.Classroom{
		{Name: "sunflower", AgeBand: "5", RoomName: "201"},
		{Name: "dandelion", AgeBand: "4", RoomName: "103"},
	}
	if err := database.Create(&classrooms).Error; err != nil {
		return err
	}

	// Development credentials only. All passwords are "changeme".
	const devHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"
	users := []models.User{
		{Username: "principal", Email: "principal@saessak.kr", PasswordHash: devHash, Role: models.RoleAdmin, Status: models.UserActive, FullName: "Yoon Jihye"},
		{Username: "t.sunflower", Email: "sunflower@saessak.kr", PasswordHash: devHash, Role: models.RoleTeacher, Status: models.UserActive, FullName: "Kim Minseo"},
		{Username: "t.dandelion", Email: "dandelion@saessak.kr", PasswordHash: devHash, Role: models.RoleTeacher, Status: models.UserActive, FullName: "Park Haeun"},
		{Username: "dietitian", Email: "kitchen@saessak.kr", PasswordHash: devHash, Role: models.RoleNutrition, Status: models.UserActive, FullName: "Lee Soyeon"},
		{Username: "guardian1", Email: "guardian1@example.com", PasswordHash: devHash, Role: models.RoleParent, Status: models.UserActive, FullName: "Choi Daeho"},
		{Username: "guardian2", Email: "guardian2@example.com", PasswordHash: devHash, Role: models.RoleParent, Status: models.UserPending, FullName: "Han Jiwoo"},
	}
	if err := database.Create(&users).Error; err != nil {
		return err
	}
	logger.Info("Created initial users", zap.Int("count", len(users)))

	assignments := []models.ClassroomAssignment{
		{UserID: users[1].ID, ClassroomID: classrooms[0].ID},
		{UserID: users[2].ID, ClassroomID: classrooms[1].ID},
	}
	if err := database.Create(&assignments).Error; err != nil {
		return err
	}

	children := []models.Child{
		{GuardianID: users[4].ID, ClassroomID: classrooms[0].ID, FullName: "Choi Yuna"},
		{GuardianID: users[5].ID, ClassroomID: classrooms[1].ID, FullName: "Han Minjun"},
	}
	if err := database.Create(&children).Error; err != nil {
		return err
	}

	logger.Info("Database seeding completed successfully")
	return nil
}
