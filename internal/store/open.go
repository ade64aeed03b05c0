package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/config"
)

// Open connects the backend named by cfg.Backend. The returned func
// releases its connections.
func Open(ctx context.Context, cfg config.Storage, logger *zap.Logger) (Blob, func(), error) {
	noop := func() {}
	logger = logger.With(zap.String("backend", cfg.Backend))

	switch cfg.Backend {
	case "fs", "":
		s, err := NewFSStore(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("blob store ready", zap.String("dir", cfg.DataDir))
		return s, noop, nil

	case "sqlite":
		s, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("blob store ready", zap.String("path", cfg.SQLitePath))
		return s, func() { s.Close() }, nil

	case "postgres":
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("postgres connect: %w", err)
		}
		s := NewPostgresStore(pool)
		if err := s.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres migrate: %w", err)
		}
		logger.Info("blob store ready")
		return s, pool.Close, nil

	case "mongo":
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return nil, nil, fmt.Errorf("mongo connect: %w", err)
		}
		logger.Info("blob store ready", zap.String("db", cfg.MongoDB))
		return NewMongoStore(client.Database(cfg.MongoDB)), func() {
			client.Disconnect(context.Background())
		}, nil

	case "redis":
		rdb, err := NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, nil, fmt.Errorf("redis connect: %w", err)
		}
		logger.Info("blob store ready", zap.String("addr", cfg.RedisAddr))
		return NewRedisStore(rdb), func() { rdb.Close() }, nil

	case "minio":
		s, err := NewMinioStore(ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
			cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			return nil, nil, fmt.Errorf("minio connect: %w", err)
		}
		logger.Info("blob store ready", zap.String("bucket", cfg.MinioBucket))
		return s, noop, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}
