// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	"github.com/dalemusser/clubhub/internal/app/system/indexes"
	"github.com/dalemusser/clubhub/internal/app/system/timeouts"
	"github.com/dalemusser/clubhub/internal/app/system/validators"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	connectCtx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return DBDeps{}, err
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, timeouts.Ping())
	defer cancelPing()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase),
		zap.Uint64("max_pool", appCfg.MongoMaxPoolSize))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the collections, JSON-Schema validators, and
// indexes the stores rely on. Idempotent; runs on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := validators.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	return indexes.EnsureAll(ctx, deps.MongoDatabase, logger)
}
