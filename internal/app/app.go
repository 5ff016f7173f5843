// Package app wires configuration into the stores and clients shared by
// the memo CLI and the backend server.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"

	"github.com/hairizuan-noorazman/bible-memo/bibleapi"
	"github.com/hairizuan-noorazman/bible-memo/credential"
	"github.com/hairizuan-noorazman/bible-memo/database"
	"github.com/hairizuan-noorazman/bible-memo/internal/config"
	"github.com/hairizuan-noorazman/bible-memo/logger"
	"github.com/hairizuan-noorazman/bible-memo/metrics"
	"github.com/hairizuan-noorazman/bible-memo/review"
	"github.com/hairizuan-noorazman/bible-memo/storage"
	"github.com/hairizuan-noorazman/bible-memo/verse"
)

// App holds the wired components.
type App struct {
	Config      *config.Config
	Logger      logger.Logger
	KV          storage.Store
	DB          *gorm.DB
	Verses      *verse.SlotStore
	Client      *bibleapi.Client
	Credentials *credential.Store
	Metrics     *metrics.Metrics
	Registry    *prometheus.Registry
}

// Build connects the configured backend, loads the verse collection and
// creates the API client. Call Close when done.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		Config:   cfg,
		Logger:   log,
		Registry: prometheus.NewRegistry(),
	}
	a.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.Metrics = metrics.New(a.Registry)

	storageCfg := storage.Config{
		Type:     cfg.Storage.Type,
		BaseDir:  cfg.Storage.BaseDir,
		S3Bucket: cfg.Storage.S3Bucket,
		S3Region: cfg.Storage.S3Region,
		S3Prefix: cfg.Storage.S3Prefix,
	}

	if storageCfg.IsSQL() {
		db, err := openDatabase(cfg.Database)
		if err != nil {
			return nil, err
		}
		a.DB = db
		storageCfg.DB = db

		log.Info(ctx, "database connected", map[string]interface{}{
			"driver": cfg.Database.Driver,
		})
	}

	kv, err := storage.New(ctx, storageCfg)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	a.KV = kv

	a.Verses = verse.NewSlotStore(
		verse.NewSlotPersister(kv, verse.VersesKey),
		log.WithField("component", "verse_store"),
		verse.WithMetrics(a.Metrics),
	)
	if _, err := a.Verses.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to load verses: %w", err)
	}

	a.Client, err = bibleapi.NewClient(bibleapi.Config{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	}, log.WithField("component", "bibleapi"), a.Metrics)
	if err != nil {
		a.Close()
		return nil, err
	}

	a.Credentials = credential.NewStore(kv, cfg.Credential.Secret, log.WithField("component", "credential"))

	log.Debug(ctx, "application initialized", map[string]interface{}{
		"storage": cfg.Storage.Type,
		"verses":  len(a.Verses.List(ctx)),
	})

	return a, nil
}

func openDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	dbCfg := database.Config{
		Driver:       cfg.Driver,
		Path:         cfg.Path,
		Host:         cfg.Host,
		Port:         cfg.Port,
		User:         cfg.User,
		Password:     cfg.Password,
		Database:     cfg.Database,
		MaxOpenConns: cfg.MaxOpenConns,
		MaxIdleConns: cfg.MaxIdleConns,
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := database.RunMigrations(sqlDB, cfg.Driver); err != nil {
		sqlDB.Close()
		return nil, err
	}

	return db, nil
}

// NewReviewSession snapshots the collection into a flashcard session. A
// configured seed makes shuffles reproducible.
func (a *App) NewReviewSession(ctx context.Context) *review.Session {
	verses := a.Verses.List(ctx)
	if a.Config.Review.Seed != 0 {
		return review.NewSeeded(verses, a.Config.Review.Seed)
	}
	return review.New(verses, nil)
}

// Close releases the database connection, if any.
func (a *App) Close() error {
	if a.DB == nil {
		return nil
	}
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
