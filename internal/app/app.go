package app

import (
	"errors"
	"time"

	"healthtrack/config"
	"healthtrack/internal/database"
	"healthtrack/internal/handlers/middleware"
	"healthtrack/internal/logger"
	"healthtrack/internal/prediction"
	"healthtrack/internal/repositories"
	"healthtrack/internal/services"
	"healthtrack/internal/utils"
	"healthtrack/internal/websockets"

	appointmentController "healthtrack/internal/controllers/appointments"
	dashboardController "healthtrack/internal/controllers/dashboard"
	predictionController "healthtrack/internal/controllers/predictions"
	userController "healthtrack/internal/controllers/users"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	Websocket  *websockets.Manager
	Config     config.Config
	Tokens     *utils.TokenManager

	// Nil when no trained model is deployed.
	Artifact *prediction.Artifact

	// Services
	TransactionService  *services.TransactionService
	NotificationService *services.NotificationService

	// Repositories
	UserRepo         repositories.UserRepository
	HealthRecordRepo repositories.HealthRecordRepository
	AppointmentRepo  repositories.AppointmentRepository
	SessionRepo      repositories.SessionRepository

	// Controllers
	UserController        *userController.UserController
	PredictionController  *predictionController.PredictionController
	AppointmentController *appointmentController.AppointmentController
	DashboardController   *dashboardController.DashboardController
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	return NewWithConfig(config)
}

// NewWithConfig wires the application from an already loaded configuration.
func NewWithConfig(config config.Config) (*App, error) {
	log := logger.New("app").Function("NewWithConfig")

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	artifact := loadArtifact(config)
	tokens := utils.NewTokenManager(
		config.SecuritySessionSecret,
		time.Duration(config.SecuritySessionTTLHours)*time.Hour,
	)
	websocket := websockets.New()

	// Initialize services
	transactionService := services.NewTransactionService(db)
	notificationService := services.NewNotificationService(websocket)

	// Initialize repositories
	userRepo := repositories.New(db)
	healthRecordRepo := repositories.NewHealthRecord(db)
	appointmentRepo := repositories.NewAppointment(db)
	sessionRepo := repositories.NewSession(db)

	// Initialize controllers with repositories and services
	userController := userController.New(userRepo, sessionRepo, tokens)
	predictionController := predictionController.New(artifact, healthRecordRepo)
	appointmentController := appointmentController.New(
		appointmentRepo,
		userRepo,
		transactionService,
		notificationService,
	)
	dashboardController := dashboardController.New(userRepo, healthRecordRepo, appointmentRepo)
	middleware := middleware.New(config, userController)

	app := &App{
		Database:              db,
		Config:                config,
		Middleware:            middleware,
		Websocket:             websocket,
		Tokens:                tokens,
		Artifact:              artifact,
		TransactionService:    transactionService,
		NotificationService:   notificationService,
		UserRepo:              userRepo,
		HealthRecordRepo:      healthRecordRepo,
		AppointmentRepo:       appointmentRepo,
		SessionRepo:           sessionRepo,
		UserController:        userController,
		PredictionController:  predictionController,
		AppointmentController: appointmentController,
		DashboardController:   dashboardController,
	}

	if err := app.validate(); err != nil {
		_ = db.Close()
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

// loadArtifact returns nil when the model files are missing or unreadable so
// the rest of the application still starts.
func loadArtifact(config config.Config) *prediction.Artifact {
	log := logger.New("app").Function("loadArtifact")

	artifact, err := prediction.LoadArtifact(config.ModelPath, config.ModelColumnsPath)
	if err != nil {
		if errors.Is(err, prediction.ErrArtifactUnavailable) {
			log.Warn("Risk model not found, assessments are disabled", "modelPath", config.ModelPath)
		} else {
			log.Er("failed to load risk model, assessments are disabled", err, "modelPath", config.ModelPath)
		}
		return nil
	}

	log.Info("Risk model loaded", "columns", len(artifact.Columns()))
	return artifact
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	switch {
	case a.Websocket == nil:
		return log.ErrMsg("websocket manager is nil")
	case a.Tokens == nil:
		return log.ErrMsg("token manager is nil")
	case a.TransactionService == nil:
		return log.ErrMsg("transaction service is nil")
	case a.NotificationService == nil:
		return log.ErrMsg("notification service is nil")
	case a.UserRepo == nil:
		return log.ErrMsg("user repository is nil")
	case a.HealthRecordRepo == nil:
		return log.ErrMsg("health record repository is nil")
	case a.AppointmentRepo == nil:
		return log.ErrMsg("appointment repository is nil")
	case a.SessionRepo == nil:
		return log.ErrMsg("session repository is nil")
	case a.UserController == nil:
		return log.ErrMsg("user controller is nil")
	case a.PredictionController == nil:
		return log.ErrMsg("prediction controller is nil")
	case a.AppointmentController == nil:
		return log.ErrMsg("appointment controller is nil")
	case a.DashboardController == nil:
		return log.ErrMsg("dashboard controller is nil")
	}

	return nil
}

func (a *App) Close() error {
	return a.Database.Close()
}
