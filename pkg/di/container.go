package di

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/f2expert/f2expert-sub001/application/serviceimpl"
	"github.com/f2expert/f2expert-sub001/domain/ports"
	"github.com/f2expert/f2expert-sub001/domain/repositories"
	"github.com/f2expert/f2expert-sub001/domain/services"
	"github.com/f2expert/f2expert-sub001/infrastructure/memory"
	"github.com/f2expert/f2expert-sub001/infrastructure/messaging"
	natspkg "github.com/f2expert/f2expert-sub001/infrastructure/nats"
	"github.com/f2expert/f2expert-sub001/infrastructure/postgres"
	redispkg "github.com/f2expert/f2expert-sub001/infrastructure/redis"
	"github.com/f2expert/f2expert-sub001/infrastructure/storage"
	"github.com/f2expert/f2expert-sub001/infrastructure/websocket"
	"github.com/f2expert/f2expert-sub001/interfaces/api/handlers"
	"github.com/f2expert/f2expert-sub001/pkg/config"
	"github.com/f2expert/f2expert-sub001/pkg/logger"
	"github.com/f2expert/f2expert-sub001/pkg/scheduler"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB             *gorm.DB // nil with the memory driver
	RedisClient    *redispkg.Client
	Cache          ports.CachePort
	Locker         ports.Locker
	NATSClient     *natspkg.Client
	NATSSubscriber *natspkg.Subscriber
	Events         ports.EventPublisher
	Hub            *websocket.Hub
	Storage        ports.StoragePort
	EventScheduler scheduler.EventScheduler

	// Repositories
	UserRepository          repositories.UserRepository
	CourseRepository        repositories.CourseRepository
	ReviewRepository        repositories.ReviewRepository
	ScheduleClassRepository repositories.ScheduleClassRepository
	TrainerSalaryRepository repositories.TrainerSalaryRepository
	MenuRepository          repositories.MenuRepository

	// Services
	UserService          services.UserService
	CourseService        services.CourseService
	ReviewService        services.ReviewService
	ScheduleClassService services.ScheduleClassService
	TrainerSalaryService services.TrainerSalaryService
	MenuService          services.MenuService
}

func NewContainer() *Container {
	return &Container{}
}

// Initialize wires everything but starts no background work; see Start.
func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	if err := c.initServices(); err != nil {
		return err
	}

	return nil
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	if err := c.initDatabase(); err != nil {
		return err
	}

	c.initCache()
	c.initEvents()

	if err := c.initStorage(); err != nil {
		return err
	}

	c.EventScheduler = scheduler.NewEventScheduler(c.Config.Location())
	return nil
}

func (c *Container) initDatabase() error {
	if c.Config.Database.Driver == "memory" {
		logger.Warn("Using in-memory repositories, data is lost on restart")
		return nil
	}

	dbConfig := postgres.DatabaseConfig{
		Host:     c.Config.Database.Host,
		Port:     c.Config.Database.Port,
		User:     c.Config.Database.User,
		Password: c.Config.Database.Password,
		DBName:   c.Config.Database.DBName,
		SSLMode:  c.Config.Database.SSLMode,
		Debug:    c.Config.IsDevelopment() && c.Config.Log.Level == "debug",
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "host", c.Config.Database.Host, "db", c.Config.Database.DBName)

	if c.Config.Database.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("Database migrated")
	}
	return nil
}

// initCache prefers Redis and falls back to an in-process cache, which
// also serves as the job lock on a single instance.
func (c *Container) initCache() {
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (using in-process cache)", "error", err)
		} else {
			c.RedisClient = redisClient
			c.Cache = redisClient
			c.Locker = redisClient
			return
		}
	}

	local := memory.NewCache()
	c.Cache = local
	c.Locker = local
	logger.Info("In-process cache initialized")
}

// initEvents routes domain events to websocket rooms. With NATS the
// services publish to JetStream and the subscriber relays to the hub, so
// every API instance broadcasts every event.
func (c *Container) initEvents() {
	if !c.Config.App.Realtime {
		c.Events = messaging.Noop{}
		logger.Info("Domain events disabled (realtime off)")
		return
	}

	c.Hub = websocket.NewHub()

	if c.Config.NATS.URL == "" {
		c.Events = messaging.NewFanout(c.Hub)
		logger.Info("Domain events delivered in-process (NATS disabled)")
		return
	}

	natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
		URL:    c.Config.NATS.URL,
		Stream: c.Config.NATS.Stream,
	})
	if err != nil {
		logger.Warn("NATS client initialization failed (events delivered in-process)", "error", err)
		c.Events = messaging.NewFanout(c.Hub)
		return
	}

	c.NATSClient = natsClient
	c.NATSSubscriber = natspkg.NewSubscriber(natsClient.Conn(), c.Hub)
	c.Events = messaging.NewFanout(natspkg.NewPublisher(natsClient))
}

func (c *Container) initStorage() error {
	switch c.Config.Storage.Type {
	case "s3":
		s3Storage, err := c.NewS3Storage()
		if err != nil {
			return err
		}
		c.Storage = s3Storage

	default:
		localStorage, err := storage.NewLocalStorage(storage.LocalStorageConfig{
			BasePath: c.Config.Storage.BasePath,
			BaseURL:  c.Config.Storage.BaseURL,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize local storage: %w", err)
		}
		c.Storage = localStorage
		logger.Info("Local Storage initialized", "path", c.Config.Storage.BasePath)
	}

	return nil
}

// NewS3Storage builds the S3 adapter from config whatever Storage.Type says.
func (c *Container) NewS3Storage() (*storage.S3Storage, error) {
	s3Storage, err := storage.NewS3Storage(storage.S3StorageConfig{
		Endpoint:  c.Config.Storage.S3.Endpoint,
		AccessKey: c.Config.Storage.S3.AccessKey,
		SecretKey: c.Config.Storage.S3.SecretKey,
		Bucket:    c.Config.Storage.S3.Bucket,
		UseSSL:    c.Config.Storage.S3.UseSSL,
		Region:    c.Config.Storage.S3.Region,
		PublicURL: c.Config.Storage.S3.PublicURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize S3 storage: %w", err)
	}
	return s3Storage, nil
}

func (c *Container) initRepositories() error {
	if c.DB == nil {
		c.UserRepository = memory.NewUserRepository()
		c.CourseRepository = memory.NewCourseRepository()
		c.ReviewRepository = memory.NewReviewRepository()
		c.ScheduleClassRepository = memory.NewScheduleClassRepository()
		c.TrainerSalaryRepository = memory.NewTrainerSalaryRepository()
		c.MenuRepository = memory.NewMenuRepository()
		logger.Info("Repositories initialized", "driver", "memory")
		return nil
	}

	c.UserRepository = postgres.NewUserRepository(c.DB)
	c.CourseRepository = postgres.NewCourseRepository(c.DB)
	c.ReviewRepository = postgres.NewReviewRepository(c.DB)
	c.ScheduleClassRepository = postgres.NewScheduleClassRepository(c.DB)
	c.TrainerSalaryRepository = postgres.NewTrainerSalaryRepository(c.DB)
	c.MenuRepository = postgres.NewMenuRepository(c.DB)
	logger.Info("Repositories initialized", "driver", "postgres")
	return nil
}

func (c *Container) initServices() error {
	ttl := c.Config.Redis.TTL

	c.UserService = serviceimpl.NewUserService(c.UserRepository, c.Storage, c.Config.JWT.Secret, c.Config.JWT.TTL)
	c.CourseService = serviceimpl.NewCourseService(
		c.CourseRepository,
		c.ReviewRepository,
		c.UserRepository,
		c.Storage,
		c.Cache,
		c.Events,
		ttl,
	)
	c.ReviewService = serviceimpl.NewReviewService(c.ReviewRepository, c.CourseRepository, c.CourseService, c.Events)
	c.ScheduleClassService = serviceimpl.NewScheduleClassService(
		c.ScheduleClassRepository,
		c.CourseRepository,
		c.UserRepository,
		c.Events,
		c.EventScheduler,
		c.Locker,
		c.Config.Location(),
	)
	c.TrainerSalaryService = serviceimpl.NewTrainerSalaryService(c.TrainerSalaryRepository, c.UserRepository, c.Events)
	c.MenuService = serviceimpl.NewMenuService(c.MenuRepository, c.Cache, ttl)

	logger.Info("Services initialized")
	return nil
}

// Start launches background work: the event relay and the scheduler.
func (c *Container) Start() error {
	if c.NATSSubscriber != nil {
		if err := c.NATSSubscriber.Start(); err != nil {
			return fmt.Errorf("failed to start NATS subscriber: %w", err)
		}
		logger.Info("NATS subscriber started (events → WebSocket)")
	}

	if !c.Config.Scheduler.Enabled {
		logger.Info("Event scheduler disabled")
		return nil
	}

	if err := c.ScheduleClassService.RegisterCompletionJob(c.Config.Scheduler.ClassCompletionCron); err != nil {
		return fmt.Errorf("failed to register class completion job: %w", err)
	}
	c.EventScheduler.Start()
	logger.Info("Event scheduler started", "class_completion_cron", c.Config.Scheduler.ClassCompletionCron)
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")
	var errs []error

	// Stop NATS subscriber
	if c.NATSSubscriber != nil {
		if err := c.NATSSubscriber.Stop(); err != nil {
			errs = append(errs, err)
		}
		logger.Info("NATS subscriber stopped")
	}

	// Stop scheduler
	if c.EventScheduler != nil && c.EventScheduler.IsRunning() {
		c.EventScheduler.Stop()
		logger.Info("Event scheduler stopped")
	}

	if c.Hub != nil {
		c.Hub.Close()
	}

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("NATS connection closed")
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	// Close database connection
	if c.DB != nil {
		if sqlDB, err := c.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, err)
			} else {
				logger.Info("Database connection closed")
			}
		}
	}

	logger.Info("Cleanup completed")
	return errors.Join(errs...)
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// healthChecks lists the checks /health runs, one per configured backend.
func (c *Container) healthChecks() map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{
		"cache": c.Cache.Ping,
	}

	if c.DB != nil {
		checks["database"] = func(ctx context.Context) error {
			sqlDB, err := c.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}
	}

	if c.NATSClient != nil {
		checks["nats"] = func(context.Context) error {
			return c.NATSClient.Ping()
		}
	}

	if pinger, ok := c.Storage.(interface{ Ping(context.Context) error }); ok {
		checks["storage"] = pinger.Ping
	}

	return checks
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		UserService:          c.UserService,
		CourseService:        c.CourseService,
		ReviewService:        c.ReviewService,
		ScheduleClassService: c.ScheduleClassService,
		TrainerSalaryService: c.TrainerSalaryService,
		MenuService:          c.MenuService,
		AppName:              c.Config.App.Name,
		JWTSecret:            c.Config.JWT.Secret,
		MaxUploadSize:        c.Config.Storage.MaxUploadSize,
		HealthChecks:         c.healthChecks(),
		Scheduler:            c.EventScheduler,
	}
}
