// Package app initializes and holds long-lived application services,
// acting as a dependency injection container.
package app

import (
	"context"
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/JakeFAU/forum-harvester/internal/database"
	"github.com/JakeFAU/forum-harvester/internal/logging"
	"github.com/JakeFAU/forum-harvester/internal/queue"
	"github.com/JakeFAU/forum-harvester/internal/storage"
)

// App holds the shared, long-lived services for the application:
// logger, snapshot storage, dataset database, and notification queue.
// It is initialized once at startup and injected into the commands.
type App struct {
	logger   *zap.Logger
	storage  storage.Provider
	database database.Provider
	queue    queue.Provider
}

// GetLogger returns the shared zap logger instance.
func (a *App) GetLogger() *zap.Logger {
	return a.logger
}

// GetStorage exposes the configured snapshot storage provider.
func (a *App) GetStorage() storage.Provider {
	return a.storage
}

// GetDatabase provides access to the dataset database provider.
func (a *App) GetDatabase() database.Provider {
	return a.database
}

// GetQueue returns the queue provider used to publish stored-post
// notifications.
func (a *App) GetQueue() queue.Provider {
	return a.queue
}

// NewApp creates and initializes an App from the application's Viper
// configuration. It fails fast if any configured service cannot be
// reached.
func NewApp(ctx context.Context) (*App, error) {
	l := logging.L
	l.Info("Initializing application services...")

	store, err := newStorageProvider(ctx, l)
	if err != nil {
		return nil, err
	}

	db, err := newDatabaseProvider(ctx, l)
	if err != nil {
		return nil, err
	}

	q, err := newQueueProvider(ctx, l)
	if err != nil {
		return nil, err
	}

	return &App{
		logger:   l,
		storage:  store,
		database: db,
		queue:    q,
	}, nil
}

func newStorageProvider(ctx context.Context, l *zap.Logger) (storage.Provider, error) {
	switch provider := viper.GetString("storage.provider"); provider {
	case "gcs":
		bucket := viper.GetString("storage.gcs_bucket")
		if bucket == "" {
			return nil, fmt.Errorf("storage.gcs_bucket must be set for the gcs provider")
		}
		return storage.NewGCSProvider(ctx, bucket, l)
	case "local":
		return storage.NewLocalProvider(viper.GetString("storage.local_dir"))
	case "", "noop":
		l.Warn("Snapshot storage disabled; raw pages will not be archived")
		return &storage.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown storage provider %q", provider)
	}
}

func newDatabaseProvider(ctx context.Context, l *zap.Logger) (database.Provider, error) {
	switch provider := viper.GetString("database.provider"); provider {
	case "postgres":
		dsn := viper.GetString("database.dsn")
		if dsn == "" {
			return nil, fmt.Errorf("database.dsn must be set for the postgres provider")
		}
		return database.NewPostgresProvider(ctx, dsn, l)
	case "", "noop":
		l.Warn("Dataset database disabled; results are kept in memory only")
		return &database.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown database provider %q", provider)
	}
}

func newQueueProvider(ctx context.Context, l *zap.Logger) (queue.Provider, error) {
	switch provider := viper.GetString("queue.provider"); provider {
	case "pubsub":
		projectID := viper.GetString("queue.project_id")
		topicID := viper.GetString("queue.topic_name")
		if projectID == "" || topicID == "" {
			return nil, fmt.Errorf("queue.project_id and queue.topic_name must be set for the pubsub provider")
		}
		return queue.NewPubSubProvider(ctx, projectID, topicID, l)
	case "", "noop":
		return &queue.NoOpProvider{}, nil
	default:
		return nil, fmt.Errorf("unknown queue provider %q", provider)
	}
}

// Close shuts down every service that holds a connection.
func (a *App) Close() {
	if err := a.database.Close(); err != nil {
		a.logger.Warn("Failed to close database provider", zap.Error(err))
	}
	if err := a.queue.Close(); err != nil {
		a.logger.Warn("Failed to close queue provider", zap.Error(err))
	}
	if err := a.logger.Sync(); err != nil {
		// Sync on stderr commonly fails; nothing actionable.
		_ = err
	}
}
