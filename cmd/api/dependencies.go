package api

import (
	"fmt"
	"log/slog"
	"time"

	ingesthandler "github.com/FACorreiaa/cnab-engine/internal/domain/ingest/handler"
	ingestrepo "github.com/FACorreiaa/cnab-engine/internal/domain/ingest/repository"
	ingestservice "github.com/FACorreiaa/cnab-engine/internal/domain/ingest/service"
	"github.com/FACorreiaa/cnab-engine/internal/events"

	"github.com/FACorreiaa/cnab-engine/pkg/config"
	"github.com/FACorreiaa/cnab-engine/pkg/db"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	IngestRepo ingestrepo.Repository

	// Services
	Publisher     events.Publisher
	IngestService *ingestservice.IngestService

	// Handlers
	IngestHandler *ingesthandler.IngestHandler
}

// InitDependencies initializes all application dependencies
func InitDependencies(cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	if err := deps.initHandlers(); err != nil {
		return nil, fmt.Errorf("failed to init handlers: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.IngestRepo = ingestrepo.NewPostgresRepository(d.DB.Pool)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices initializes all service layer dependencies
func (d *Dependencies) initServices() error {
	if d.Config.Kafka.Enabled() {
		publisher, err := events.NewKafkaPublisher(d.Config.Kafka.Brokers, d.Config.Kafka.Topic, d.Logger)
		if err != nil {
			return fmt.Errorf("failed to init kafka publisher: %w", err)
		}
		d.Publisher = publisher
		d.Logger.Info("kafka publisher initialized", "topic", d.Config.Kafka.Topic)
	} else {
		d.Logger.Info("kafka publishing disabled, no brokers configured")
	}

	d.IngestService = ingestservice.NewIngestService(d.IngestRepo, d.Publisher, d.Logger)

	d.Logger.Info("services initialized")
	return nil
}

// initHandlers initializes all handler dependencies
func (d *Dependencies) initHandlers() error {
	d.IngestHandler = ingesthandler.NewIngestHandler(d.IngestService, d.Logger, d.Config.Upload.MaxBytes)

	d.Logger.Info("handlers initialized")
	return nil
}

// Cleanup closes all resources
func (d *Dependencies) Cleanup() {
	if d.Publisher != nil {
		if err := d.Publisher.Close(); err != nil {
			d.Logger.Warn("failed to close publisher", "error", err)
		}
	}
	if d.DB != nil {
		d.DB.Close()
	}
	d.Logger.Info("cleanup completed")
}
