package database

import (
	"context"
	"errors"
	"log/slog"
	"storefront/internal/logger"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
)

type Mongo struct {
	Client   *mongo.Client
	Database *mongo.Database
}

var (
	instance *Mongo
	once     sync.Once
	initErr  error
)

// Instance connects once per process; later calls return the same handle.
func Instance(globalCtx context.Context, uri, dbName string) (*Mongo, error) {
	once.Do(func() {
		if uri == "" || dbName == "" {
			initErr = errors.New("mongo uri and database name are required")
			return
		}

		opts := options.Client().
			ApplyURI(uri).
			SetMonitor(otelmongo.NewMonitor())

		client, err := mongo.Connect(globalCtx, opts)
		if err != nil {
			logger.Error(globalCtx, "Failed to connect to MongoDB", slog.String("error", err.Error()))
			initErr = err
			return
		}

		pingCtx, cancel := context.WithTimeout(globalCtx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx, nil); err != nil {
			logger.Error(globalCtx, "MongoDB ping failed", slog.String("error", err.Error()))
			initErr = err
			return
		}

		logger.Info(globalCtx, "Connected to MongoDB successfully", slog.String("database", dbName))
		instance = &Mongo{
			Client:   client,
			Database: client.Database(dbName),
		}
	})

	return instance, initErr
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}
